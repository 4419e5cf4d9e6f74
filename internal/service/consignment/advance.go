package consignment

import (
	"context"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Service advances consignments through the fixed status pipeline and
// cascades the mapped stage down to orders, receivers and containers.
type Service struct {
	repo             consignmentRepository
	policies         policySource
	sink             notificationSink
	metrics          *metrics.Set
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a consignment Service.
func NewService(
	repo consignmentRepository,
	policies policySource,
	sink notificationSink,
	m *metrics.Set,
	logger logx.Logger,
	timeout time.Duration,
) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		repo:             repo,
		policies:         policies,
		sink:             sink,
		metrics:          m,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Advance moves a consignment one step along the pipeline. The synced
// stage, a different vocabulary than the consignment's own labels, is
// pushed onto every linked order, its receivers, and one availability row
// per referenced container.
func (s *Service) Advance(ctx context.Context, consignmentID int64, actor string) (*Report, error) {
	if actor == "" {
		actor = "system"
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	policy, err := s.policies.Load(ctx)
	if err != nil {
		return nil, err
	}

	var report Report
	err = s.repo.WithTx(ctx, func(tx bookingtx.Repository) error {
		now := s.now()

		c, err := tx.GetConsignmentForUpdate(ctx, consignmentID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound
		}

		next, ok := domain.NextConsignmentStatus(c.Status)
		if !ok {
			return apperr.Validation("status", "consignment %s has no next status after %q", c.Number, c.Status)
		}
		synced, ok := domain.SyncedStage(next)
		if !ok {
			return apperr.Validation("status", "no synced stage mapped for %q", next)
		}

		newEta := policy.ETA(now, synced)
		if next == domain.ConsignmentDelivered {
			newEta = now
		}

		stageEta := policy.ETA(now, synced)
		state := domain.ContainerStateForStage(synced)
		seen := make(map[int64]bool)
		for _, orderID := range c.OrderIDs {
			order, err := tx.GetOrderForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperr.NotFound
			}

			receivers, err := tx.ListReceivers(ctx, orderID)
			if err != nil {
				return err
			}
			for i := range receivers {
				rec := &receivers[i]
				if err := tx.UpdateReceiverStatus(ctx, rec.ID, synced, &stageEta); err != nil {
					return err
				}

				lines, err := tx.ListCargoLines(ctx, rec.ID)
				if err != nil {
					return err
				}
				for j := range lines {
					for _, f := range lines[j].Fragments {
						if seen[f.ContainerID] {
							continue
						}
						seen[f.ContainerID] = true
						err := tx.InsertContainerEvent(ctx, &domain.ContainerStatusEvent{
							ContainerID: f.ContainerID,
							State:       state,
							Actor:       actor,
							Notes:       "cascaded from consignment " + c.Number,
							CreatedAt:   now,
						})
						if err != nil {
							return err
						}
					}
				}
			}

			err = tx.UpdateOrderAggregates(ctx, orderID, order.TotalAssignedQuantity, synced, &stageEta)
			if err != nil {
				return err
			}
		}

		previous := c.Status
		c.Status = next
		c.ETA = &newEta
		if err := tx.UpdateConsignment(ctx, c); err != nil {
			return err
		}

		err = tx.InsertTrackingEntry(ctx, &domain.TrackingEntry{
			Kind:           "consignment",
			ConsignmentID:  c.ID,
			StatusBefore:   previous,
			StatusAfter:    next,
			ETA:            &newEta,
			AffectedOrders: c.OrderIDs,
			Actor:          actor,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}

		report = Report{
			PreviousStatus: previous,
			NewStatus:      next,
			SyncedStatus:   synced,
			NewEta:         newEta,
			AffectedOrders: c.OrderIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusCascadesTotal.Inc()
	if s.sink != nil {
		go s.sink.Notify(notify.Message{
			Recipient: actor,
			Template:  "consignment_advanced",
			Data: map[string]any{
				"consignment_id": consignmentID,
				"status":         report.NewStatus,
				"synced_status":  report.SyncedStatus,
			},
		})
	}

	s.logger.Info("consignment advanced",
		logx.String("event", "consignment_advanced"),
		logx.Int64("consignment_id", consignmentID),
		logx.String("from", report.PreviousStatus),
		logx.String("to", report.NewStatus),
	)
	return &report, nil
}

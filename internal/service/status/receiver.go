package status

import (
	"context"
	"strings"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Service applies receiver status transitions and cascades them through the
// order, cargo lines and containers.
type Service struct {
	repo             statusRepository
	policies         policySource
	sink             notificationSink
	aggregator       Aggregator
	metrics          *metrics.Set
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a status Service.
func NewService(
	repo statusRepository,
	policies policySource,
	sink notificationSink,
	aggregator Aggregator,
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
		aggregator:       aggregator,
		metrics:          m,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// SetReceiverStatus moves a receiver to a new shipment stage and cascades
// the change: containers get a mapped availability row, cargo lines get the
// denormalized stage, and the order's overall status and ETA are recomputed.
func (s *Service) SetReceiverStatus(ctx context.Context, orderID, receiverID int64, rawStatus string, opts Options) (*Snapshot, error) {
	target, ok := domain.CanonicalStage(rawStatus)
	if !ok {
		return nil, apperr.Validation("status", "unknown status %q, valid: %s",
			rawStatus, strings.Join(domain.Stages(), ", "))
	}

	actor := opts.Actor
	if actor == "" {
		actor = "system"
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	policy, err := s.policies.Load(ctx)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	err = s.repo.WithTx(ctx, func(tx bookingtx.Repository) error {
		now := s.now()

		// order row locked first so concurrent cascades on the same
		// order serialize
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperr.NotFound
		}
		rec, err := tx.GetReceiverForUpdate(ctx, orderID, receiverID)
		if err != nil {
			return err
		}
		if rec == nil {
			return apperr.NotFound
		}

		previous := rec.Status

		// past-ETA receivers land on delivered no matter what was asked
		if rec.PastETA(now) && rec.Status != domain.StageDelivered {
			target = domain.StageDelivered
		}

		eta := rec.ETA
		if opts.ForceRecalcEta || policy.MoreAdvanced(target, rec.Status) {
			t := policy.ETA(now, target)
			eta = &t
		}
		if err := tx.UpdateReceiverStatus(ctx, rec.ID, target, eta); err != nil {
			return err
		}
		rec.Status = target
		rec.ETA = eta

		if err := s.cascade(ctx, tx, rec, target, actor, now); err != nil {
			return err
		}

		receivers, err := tx.ListReceivers(ctx, orderID)
		if err != nil {
			return err
		}
		order.Status = s.aggregator.Overall(policy, receivers, now)
		order.ETA = domain.MinETA(receivers)
		err = tx.UpdateOrderAggregates(ctx, orderID, order.TotalAssignedQuantity, order.Status, order.ETA)
		if err != nil {
			return err
		}

		err = tx.InsertTrackingEntry(ctx, &domain.TrackingEntry{
			Kind:         "receiver",
			OrderID:      orderID,
			ReceiverID:   rec.ID,
			StatusBefore: previous,
			StatusAfter:  target,
			ETA:          eta,
			Actor:        actor,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		snap = Snapshot{Receiver: *rec, Order: *order}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusCascadesTotal.Inc()
	if s.sink != nil {
		go s.sink.Notify(notify.Message{
			Recipient: snap.Receiver.Name,
			Template:  "status_changed",
			Data:      map[string]any{"receiver_id": receiverID, "status": snap.Receiver.Status},
		})
	}

	s.logger.Info("receiver status updated",
		logx.String("event", "receiver_status_updated"),
		logx.Int64("order_id", orderID),
		logx.Int64("receiver_id", receiverID),
		logx.String("status", snap.Receiver.Status),
	)
	return &snap, nil
}

// cascade pushes the stage down: one availability row per container in the
// receiver's fragments, and the denormalized stage onto its cargo lines.
func (s *Service) cascade(ctx context.Context, tx bookingtx.Repository, rec *domain.Receiver, stage, actor string, now time.Time) error {
	lines, err := tx.ListCargoLines(ctx, rec.ID)
	if err != nil {
		return err
	}

	state := domain.ContainerStateForStage(stage)
	seen := make(map[int64]bool)
	for i := range lines {
		for _, f := range lines[i].Fragments {
			if seen[f.ContainerID] {
				continue
			}
			seen[f.ContainerID] = true
			err := tx.InsertContainerEvent(ctx, &domain.ContainerStatusEvent{
				ContainerID: f.ContainerID,
				State:       state,
				Actor:       actor,
				Notes:       "cascaded from receiver status " + stage,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
		}
	}

	// best-effort denormalization, a failure here does not block the
	// transition
	if err := tx.SetCargoConsignmentStatus(ctx, rec.ID, stage); err != nil {
		s.logger.Warn("cargo line stage denormalization failed",
			logx.Int64("receiver_id", rec.ID),
			logx.Err(err),
		)
	}
	return nil
}

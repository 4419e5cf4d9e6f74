package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Engine orchestrates cargo-to-container allocation and removal: validation,
// splitting, ledger writes and the aggregate cascade, all inside one
// transaction per batch.
type Engine struct {
	repo             assignmentRepository
	policies         policySource
	sink             notificationSink
	cache            cargoInvalidator
	metrics          *metrics.Set
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewEngine creates and configures an assignment Engine.
func NewEngine(
	repo assignmentRepository,
	policies policySource,
	sink notificationSink,
	cache cargoInvalidator,
	m *metrics.Set,
	logger logx.Logger,
	timeout time.Duration,
) *Engine {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Engine{
		repo:             repo,
		policies:         policies,
		sink:             sink,
		cache:            cache,
		metrics:          m,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}

// Allocate applies one allocation batch. Expected partial conditions
// (insufficient remaining, ineligible container, empty container list) are
// reported as skips; a batch that assigns nothing at all fails with a
// ValidationError and commits nothing.
func (s *Engine) Allocate(ctx context.Context, batch Batch) (*Result, error) {
	if len(batch.Orders) == 0 {
		return nil, apperr.Validation("orders", "allocation batch is empty")
	}
	actor := actorOrSystem(batch.Actor)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	policy, err := s.policies.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var (
		touchedLines  []int64
		totalAssigned int64
	)

	err = s.repo.WithTx(ctx, func(tx bookingtx.Repository) error {
		now := s.now()
		for _, ordReq := range batch.Orders {
			order, err := tx.GetOrderForUpdate(ctx, ordReq.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperr.NotFound
			}

			var orderAssigned int64
			for _, recReq := range ordReq.Receivers {
				report, err := s.allocateReceiver(ctx, tx, policy, order, recReq, actor, now, result)
				if err != nil {
					return err
				}
				orderAssigned += report.AssignedQuantity
				result.Receivers = append(result.Receivers, *report)
				for _, lineReq := range recReq.Lines {
					touchedLines = append(touchedLines, lineReq.CargoLineID)
				}
			}

			if orderAssigned > 0 {
				receivers, err := tx.ListReceivers(ctx, order.ID)
				if err != nil {
					return err
				}
				err = tx.UpdateOrderAggregates(ctx, order.ID,
					order.TotalAssignedQuantity+orderAssigned, order.Status, domain.MinETA(receivers))
				if err != nil {
					return err
				}
			}
			totalAssigned += orderAssigned
		}

		if totalAssigned == 0 {
			if len(result.Skips) > 0 {
				return apperr.Validation("batch", "no assignments applied: %s", result.Skips[0].Reason)
			}
			return apperr.Validation("batch", "no assignments requested")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AssignmentsTotal.Add(float64(totalAssigned))
	s.metrics.AssignmentSkipsTotal.Add(float64(len(result.Skips)))
	s.afterWrite(touchedLines, notify.Message{
		Recipient: actor,
		Template:  "assignment_confirmed",
		Data:      map[string]any{"assigned_quantity": totalAssigned, "skips": len(result.Skips)},
	})

	s.logger.Info("allocation applied",
		logx.String("event", "cargo_allocated"),
		logx.String("actor", actor),
		logx.Int64("assigned_quantity", totalAssigned),
		logx.Int("skips", len(result.Skips)),
	)
	return result, nil
}

// allocateReceiver handles one receiver of the batch under the row locks
// taken by the caller's transaction.
func (s *Engine) allocateReceiver(
	ctx context.Context,
	tx bookingtx.Repository,
	policy *domain.Policy,
	order *domain.Order,
	recReq ReceiverRequest,
	actor string,
	now time.Time,
	result *Result,
) (*ReceiverReport, error) {
	rec, err := tx.GetReceiverForUpdate(ctx, order.ID, recReq.ReceiverID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperr.NotFound
	}

	report := &ReceiverReport{ReceiverID: rec.ID}
	var usedNumbers []string

	for _, lineReq := range recReq.Lines {
		line, err := tx.GetCargoLineForUpdate(ctx, rec.ID, lineReq.CargoLineID)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return nil, apperr.NotFound
		}

		skip := func(containerID int64, reason string) {
			result.Skips = append(result.Skips, Skip{
				OrderID:     order.ID,
				ReceiverID:  rec.ID,
				CargoLineID: line.ID,
				ContainerID: containerID,
				Reason:      reason,
			})
		}

		if lineReq.Quantity <= 0 {
			skip(0, "zero quantity requested")
			continue
		}
		if len(lineReq.ContainerIDs) == 0 {
			skip(0, "no containers provided")
			continue
		}
		if remaining := line.Remaining(); lineReq.Quantity > remaining {
			skip(0, fmt.Sprintf("requested quantity %d exceeds remaining %d", lineReq.Quantity, remaining))
			continue
		}

		shares := domain.SplitEvenly(lineReq.Quantity, lineReq.Weight, len(lineReq.ContainerIDs))
		for i, containerID := range lineReq.ContainerIDs {
			c, err := tx.GetContainer(ctx, containerID)
			if err != nil {
				return nil, err
			}
			if c == nil {
				skip(containerID, "container not found")
				continue
			}
			last, err := tx.LatestContainerEvent(ctx, containerID)
			if err != nil {
				return nil, err
			}
			state := domain.DeriveAvailability(c, last, now)
			if !state.Assignable() {
				// shortfall is reported back, not redistributed
				skip(containerID, fmt.Sprintf("container %s is %s", c.Number, state))
				continue
			}

			share := shares[i]
			err = tx.AppendLedger(ctx, &domain.LedgerEntry{
				ContainerID:   containerID,
				OrderID:       order.ID,
				ReceiverID:    rec.ID,
				CargoLineID:   line.ID,
				QuantityDelta: share.Quantity,
				WeightDelta:   share.Weight,
				StatusBefore:  string(state),
				StatusAfter:   string(domain.StateAssignedToJob),
				Action:        domain.ActionAssign,
				Actor:         actor,
				CreatedAt:     now,
			})
			if err != nil {
				return nil, err
			}

			f := line.Fragment(containerID)
			if f == nil {
				line.Fragments = append(line.Fragments, domain.ContainerFragment{
					ContainerID:     containerID,
					ContainerNumber: c.Number,
				})
				f = &line.Fragments[len(line.Fragments)-1]
			}
			f.AssignedQuantity += share.Quantity
			f.AssignedWeight = f.AssignedWeight.Add(share.Weight)
			f.Status = string(domain.StateAssignedToJob)

			line.AssignedQuantity += share.Quantity
			line.AssignedWeight = line.AssignedWeight.Add(share.Weight)

			err = tx.InsertContainerEvent(ctx, &domain.ContainerStatusEvent{
				ContainerID: containerID,
				State:       domain.StateAssignedToJob,
				Location:    c.Location,
				Actor:       actor,
				Notes:       fmt.Sprintf("assigned %d to cargo line %d", share.Quantity, line.ID),
				CreatedAt:   now,
			})
			if err != nil {
				return nil, err
			}

			usedNumbers = appendUnique(usedNumbers, c.Number)
			report.AssignedQuantity += share.Quantity
			report.AssignedWeight = report.AssignedWeight.Add(share.Weight)
		}

		line.RefreshRemaining()
		if err := tx.UpdateCargoLineAssignment(ctx, line); err != nil {
			return nil, err
		}
	}

	if report.AssignedQuantity > 0 {
		for _, n := range usedNumbers {
			rec.Containers = appendUnique(rec.Containers, n)
		}
		rec.QtyDelivered += report.AssignedQuantity
		if policy.MoreAdvanced(domain.StageReadyForLoading, rec.Status) {
			rec.Status = domain.StageReadyForLoading
		}
		if err := tx.UpdateReceiverAssignment(ctx, rec); err != nil {
			return nil, err
		}
		report.Containers = usedNumbers
	}
	return report, nil
}

// Deallocate detaches the named containers from cargo lines. Fragments are
// removed whole: a container assignment either stays or goes entirely.
func (s *Engine) Deallocate(ctx context.Context, batch RemovalBatch) ([]RemovalReport, error) {
	if len(batch.Orders) == 0 {
		return nil, apperr.Validation("orders", "removal batch is empty")
	}
	actor := actorOrSystem(batch.Actor)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		reports      []RemovalReport
		touchedLines []int64
	)

	err := s.repo.WithTx(ctx, func(tx bookingtx.Repository) error {
		now := s.now()
		for _, ordReq := range batch.Orders {
			order, err := tx.GetOrderForUpdate(ctx, ordReq.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperr.NotFound
			}

			var orderRemoved int64
			for _, recReq := range ordReq.Receivers {
				rec, err := tx.GetReceiverForUpdate(ctx, order.ID, recReq.ReceiverID)
				if err != nil {
					return err
				}
				if rec == nil {
					return apperr.NotFound
				}

				report := RemovalReport{ReceiverID: rec.ID}
				for _, lineReq := range recReq.Lines {
					line, err := tx.GetCargoLineForUpdate(ctx, rec.ID, lineReq.CargoLineID)
					if err != nil {
						return err
					}
					if line == nil {
						return apperr.NotFound
					}

					for _, containerID := range lineReq.ContainerIDs {
						f := line.Fragment(containerID)
						if f == nil {
							return apperr.Validation("container_id",
								"container %d has no assignment on cargo line %d", containerID, line.ID)
						}
						removed, err := s.detachFragment(ctx, tx, order.ID, rec, line, f, actor, now)
						if err != nil {
							return err
						}
						report.RemovedQuantity += removed.Quantity
						report.RemovedWeight = report.RemovedWeight.Add(removed.Weight)
						report.Containers = appendUnique(report.Containers, f.ContainerNumber)
						line.DropFragment(containerID)
					}

					line.RefreshRemaining()
					if err := tx.UpdateCargoLineAssignment(ctx, line); err != nil {
						return err
					}
					touchedLines = append(touchedLines, line.ID)
				}

				if err := s.refreshReceiverContainers(ctx, tx, rec, report.RemovedQuantity); err != nil {
					return err
				}
				orderRemoved += report.RemovedQuantity
				reports = append(reports, report)
			}

			if err := s.shrinkOrderTotal(ctx, tx, order, orderRemoved); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(touchedLines, notify.Message{
		Recipient: actor,
		Template:  "assignment_removed",
		Data:      map[string]any{"receivers": len(reports)},
	})
	return reports, nil
}

// DeallocateReceiver removes every assignment of a receiver and resets it
// to pending.
func (s *Engine) DeallocateReceiver(ctx context.Context, orderID, receiverID int64, actor string) (*RemovalReport, error) {
	actor = actorOrSystem(actor)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		report       RemovalReport
		touchedLines []int64
	)

	err := s.repo.WithTx(ctx, func(tx bookingtx.Repository) error {
		now := s.now()
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
		report.ReceiverID = rec.ID

		lines, err := tx.ListCargoLines(ctx, rec.ID)
		if err != nil {
			return err
		}
		for i := range lines {
			line := &lines[i]
			for j := range line.Fragments {
				f := &line.Fragments[j]
				removed, err := s.detachFragment(ctx, tx, order.ID, rec, line, f, actor, now)
				if err != nil {
					return err
				}
				report.RemovedQuantity += removed.Quantity
				report.RemovedWeight = report.RemovedWeight.Add(removed.Weight)
				report.Containers = appendUnique(report.Containers, f.ContainerNumber)
			}
			line.Fragments = nil
			line.AssignedQuantity = 0
			line.AssignedWeight = decimal.Zero
			if err := tx.UpdateCargoLineAssignment(ctx, line); err != nil {
				return err
			}
			touchedLines = append(touchedLines, line.ID)
		}

		rec.QtyDelivered = 0
		rec.Containers = nil
		rec.Status = domain.StagePending
		if err := tx.UpdateReceiverAssignment(ctx, rec); err != nil {
			return err
		}

		return s.shrinkOrderTotal(ctx, tx, order, report.RemovedQuantity)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(touchedLines, notify.Message{
		Recipient: actor,
		Template:  "assignment_removed",
		Data:      map[string]any{"receiver_id": receiverID, "removed_quantity": report.RemovedQuantity},
	})

	s.logger.Info("receiver assignments removed",
		logx.String("event", "cargo_unassigned"),
		logx.Int64("receiver_id", receiverID),
		logx.Int64("removed_quantity", report.RemovedQuantity),
	)
	return &report, nil
}

// detachFragment writes the negative ledger entry for one fragment. The
// line totals shrink by the exact fragment amounts.
func (s *Engine) detachFragment(
	ctx context.Context,
	tx bookingtx.Repository,
	orderID int64,
	rec *domain.Receiver,
	line *domain.CargoLine,
	f *domain.ContainerFragment,
	actor string,
	now time.Time,
) (domain.AssignedTotals, error) {
	err := tx.AppendLedger(ctx, &domain.LedgerEntry{
		ContainerID:   f.ContainerID,
		OrderID:       orderID,
		ReceiverID:    rec.ID,
		CargoLineID:   line.ID,
		QuantityDelta: -f.AssignedQuantity,
		WeightDelta:   f.AssignedWeight.Neg(),
		StatusBefore:  f.Status,
		StatusAfter:   string(domain.StateAvailable),
		Action:        domain.ActionUnassign,
		Actor:         actor,
		Notes:         fmt.Sprintf("unassigned from cargo line %d", line.ID),
		CreatedAt:     now,
	})
	if err != nil {
		return domain.AssignedTotals{}, err
	}

	removed := domain.AssignedTotals{Quantity: f.AssignedQuantity, Weight: f.AssignedWeight}
	line.AssignedQuantity -= f.AssignedQuantity
	line.AssignedWeight = line.AssignedWeight.Sub(f.AssignedWeight)
	return removed, nil
}

// refreshReceiverContainers rebuilds the receiver's in-use container list
// from its lines' surviving fragments after a partial removal.
func (s *Engine) refreshReceiverContainers(ctx context.Context, tx bookingtx.Repository, rec *domain.Receiver, removed int64) error {
	lines, err := tx.ListCargoLines(ctx, rec.ID)
	if err != nil {
		return err
	}
	var inUse []string
	for i := range lines {
		for _, f := range lines[i].Fragments {
			inUse = appendUnique(inUse, f.ContainerNumber)
		}
	}
	rec.Containers = inUse
	rec.QtyDelivered -= removed
	if rec.QtyDelivered < 0 {
		rec.QtyDelivered = 0
	}
	return tx.UpdateReceiverAssignment(ctx, rec)
}

// shrinkOrderTotal moves the order's assigned total down, clamped at zero.
func (s *Engine) shrinkOrderTotal(ctx context.Context, tx bookingtx.Repository, order *domain.Order, removed int64) error {
	if removed == 0 {
		return nil
	}
	total := order.TotalAssignedQuantity - removed
	if total < 0 {
		total = 0
	}
	order.TotalAssignedQuantity = total
	return tx.UpdateOrderAggregates(ctx, order.ID, total, order.Status, order.ETA)
}

// afterWrite runs the post-commit side effects. Cache invalidation happens
// before the call returns: a concurrent read must not be able to re-cache
// the pre-write snapshot after the invalidation lands. The notification is
// fire-and-forget; neither side effect can fail the committed batch.
func (s *Engine) afterWrite(touchedLines []int64, msg notify.Message) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.cache.InvalidateCargoLines(ctx, touchedLines...); err != nil {
			s.logger.Warn("cache invalidation failed", logx.Err(err))
		}
	}
	if s.sink != nil {
		go s.sink.Notify(msg)
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// AppendLedger - pure insert of one assignment ledger entry. The ledger is
// append-only; there is no update or delete path.
func (r *TxRepo) AppendLedger(ctx context.Context, e *domain.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.tx.Exec(ctx, `
        INSERT INTO assignment_ledger
            (id, container_id, order_id, receiver_id, cargo_line_id,
             quantity_delta, weight_delta, status_before, status_after,
             action, actor, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, e.ID, e.ContainerID, e.OrderID, e.ReceiverID, e.CargoLineID,
		e.QuantityDelta, e.WeightDelta, e.StatusBefore, e.StatusAfter,
		e.Action, e.Actor, e.Notes, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", mapSchemaErr(err))
	}
	return nil
}

const sumAssignedQuery = `
        SELECT COALESCE(SUM(quantity_delta), 0),
               COALESCE(SUM(weight_delta), 0)
        FROM assignment_ledger
        WHERE cargo_line_id = $1`

// SumAssigned folds all ledger entries for a cargo line into the
// authoritative currently-assigned totals.
func (r *TxRepo) SumAssigned(ctx context.Context, cargoLineID int64) (domain.AssignedTotals, error) {
	var t domain.AssignedTotals
	err := r.tx.QueryRow(ctx, sumAssignedQuery, cargoLineID).Scan(&t.Quantity, &t.Weight)
	if err != nil {
		return domain.AssignedTotals{}, fmt.Errorf("sum assigned for line %d: %w", cargoLineID, mapSchemaErr(err))
	}
	return t, nil
}

// LedgerRepo is the read side of the assignment ledger, used by read APIs
// to reconstruct fragments and reconcile aggregates.
type LedgerRepo struct {
	db *pgxpool.Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(db *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// SumAssigned - same fold as the transactional variant, outside a tx.
func (r *LedgerRepo) SumAssigned(ctx context.Context, cargoLineID int64) (domain.AssignedTotals, error) {
	var t domain.AssignedTotals
	err := r.db.QueryRow(ctx, sumAssignedQuery, cargoLineID).Scan(&t.Quantity, &t.Weight)
	if err != nil {
		return domain.AssignedTotals{}, fmt.Errorf("sum assigned for line %d: %w", cargoLineID, mapSchemaErr(err))
	}
	return t, nil
}

// FragmentsFromLedger rebuilds a cargo line's per-container breakdown by
// grouping ledger entries by container. Containers whose deltas cancel out
// to zero are dropped.
func (r *LedgerRepo) FragmentsFromLedger(ctx context.Context, cargoLineID int64) ([]domain.ContainerFragment, error) {
	rows, err := r.db.Query(ctx, `
        SELECT l.container_id, c.number, l.status_after, l.quantity_delta, l.weight_delta
        FROM assignment_ledger l
        JOIN containers c ON c.id = l.container_id
        WHERE l.cargo_line_id = $1
        ORDER BY l.created_at, l.id
    `, cargoLineID)
	if err != nil {
		return nil, fmt.Errorf("fragments from ledger for line %d: %w", cargoLineID, mapSchemaErr(err))
	}
	defer rows.Close()

	var order []int64
	byContainer := make(map[int64]*domain.ContainerFragment)
	for rows.Next() {
		var (
			containerID int64
			number      string
			statusAfter string
			qtyDelta    int64
			weightDelta decimal.Decimal
		)
		if err := rows.Scan(&containerID, &number, &statusAfter, &qtyDelta, &weightDelta); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		f, ok := byContainer[containerID]
		if !ok {
			f = &domain.ContainerFragment{ContainerID: containerID, ContainerNumber: number}
			byContainer[containerID] = f
			order = append(order, containerID)
		}
		f.AssignedQuantity += qtyDelta
		f.AssignedWeight = f.AssignedWeight.Add(weightDelta)
		f.Status = statusAfter // latest entry wins
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.ContainerFragment, 0, len(order))
	for _, id := range order {
		f := byContainer[id]
		if f.AssignedQuantity == 0 && f.AssignedWeight.IsZero() {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

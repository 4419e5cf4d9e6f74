package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// BookingRepo represents the booking repository: orders, receivers, cargo
// lines and everything written from inside an engine transaction.
type BookingRepo struct {
	db *pgxpool.Pool
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(tx bookingtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetOrder - read an order outside any transaction.
func (r *BookingRepo) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, orderQuery, orderID), orderID)
}

// GetCargoLine - read a cargo line outside any transaction.
func (r *BookingRepo) GetCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, receiver_id, description, total_quantity, weight,
               assigned_quantity, assigned_weight, consignment_status, fragments
        FROM cargo_lines
        WHERE id = $1
    `, cargoLineID)
	return scanCargoLine(row, cargoLineID)
}

// TxRepo represents a booking transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

const orderQuery = `
        SELECT id, reference, total_assigned_quantity, status, eta
        FROM orders
        WHERE id = $1`

func scanOrder(row pgx.Row, orderID int64) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.Reference, &o.TotalAssignedQuantity, &o.Status, &o.ETA); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, mapSchemaErr(err))
	}
	return &o, nil
}

// GetOrderForUpdate - lock and return an order row.
func (r *TxRepo) GetOrderForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	return scanOrder(r.tx.QueryRow(ctx, orderQuery+` FOR UPDATE`, orderID), orderID)
}

const receiverColumns = `id, order_id, name, total_quantity, total_weight,
               containers, status, eta, etd, qty_delivered`

func scanReceiver(row pgx.Row) (*domain.Receiver, error) {
	var rec domain.Receiver
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.Name, &rec.TotalQuantity, &rec.TotalWeight,
		&rec.Containers, &rec.Status, &rec.ETA, &rec.ETD, &rec.QtyDelivered)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListReceivers - all receivers of an order, ordered by id.
func (r *TxRepo) ListReceivers(ctx context.Context, orderID int64) ([]domain.Receiver, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+receiverColumns+`
        FROM receivers
        WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, fmt.Errorf("list receivers for order %d: %w", orderID, mapSchemaErr(err))
	}
	defer rows.Close()

	var out []domain.Receiver
	for rows.Next() {
		rec, err := scanReceiver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receiver: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetReceiverForUpdate - lock and return a receiver row.
func (r *TxRepo) GetReceiverForUpdate(ctx context.Context, orderID, receiverID int64) (*domain.Receiver, error) {
	rec, err := scanReceiver(r.tx.QueryRow(ctx, `
        SELECT `+receiverColumns+`
        FROM receivers
        WHERE id = $1 AND order_id = $2
        FOR UPDATE
    `, receiverID, orderID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiver %d: %w", receiverID, mapSchemaErr(err))
	}
	return rec, nil
}

const cargoLineColumns = `id, receiver_id, description, total_quantity, weight,
               assigned_quantity, assigned_weight, consignment_status, fragments`

func scanCargoLine(row pgx.Row, cargoLineID int64) (*domain.CargoLine, error) {
	var l domain.CargoLine
	err := row.Scan(&l.ID, &l.ReceiverID, &l.Description, &l.TotalQuantity, &l.Weight,
		&l.AssignedQuantity, &l.AssignedWeight, &l.ConsignmentStatus, &l.Fragments)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cargo line %d: %w", cargoLineID, mapSchemaErr(err))
	}
	return &l, nil
}

// ListCargoLines - all cargo lines of a receiver, ordered by id.
func (r *TxRepo) ListCargoLines(ctx context.Context, receiverID int64) ([]domain.CargoLine, error) {
	rows, err := r.tx.Query(ctx, `
        SELECT `+cargoLineColumns+`
        FROM cargo_lines
        WHERE receiver_id = $1
        ORDER BY id
    `, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list cargo lines for receiver %d: %w", receiverID, mapSchemaErr(err))
	}
	defer rows.Close()

	var out []domain.CargoLine
	for rows.Next() {
		var l domain.CargoLine
		err := rows.Scan(&l.ID, &l.ReceiverID, &l.Description, &l.TotalQuantity, &l.Weight,
			&l.AssignedQuantity, &l.AssignedWeight, &l.ConsignmentStatus, &l.Fragments)
		if err != nil {
			return nil, fmt.Errorf("scan cargo line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetCargoLineForUpdate - lock and return a cargo line row.
func (r *TxRepo) GetCargoLineForUpdate(ctx context.Context, receiverID, cargoLineID int64) (*domain.CargoLine, error) {
	return scanCargoLine(r.tx.QueryRow(ctx, `
        SELECT `+cargoLineColumns+`
        FROM cargo_lines
        WHERE id = $1 AND receiver_id = $2
        FOR UPDATE
    `, cargoLineID, receiverID), cargoLineID)
}

// UpdateCargoLineAssignment persists the line's assigned totals and its
// denormalized fragment breakdown.
func (r *TxRepo) UpdateCargoLineAssignment(ctx context.Context, line *domain.CargoLine) error {
	fragments := line.Fragments
	if fragments == nil {
		fragments = []domain.ContainerFragment{}
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE cargo_lines
        SET assigned_quantity = $2,
            assigned_weight   = $3,
            fragments         = $4,
            updated_at        = now()
        WHERE id = $1
    `, line.ID, line.AssignedQuantity, line.AssignedWeight, fragments)
	if err != nil {
		return fmt.Errorf("update cargo line %d: %w", line.ID, mapSchemaErr(err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("cargo line %d not found", line.ID)
	}
	return nil
}

// SetCargoConsignmentStatus stamps the denormalized consignment status on
// every cargo line of a receiver.
func (r *TxRepo) SetCargoConsignmentStatus(ctx context.Context, receiverID int64, status string) error {
	_, err := r.tx.Exec(ctx, `
        UPDATE cargo_lines
        SET consignment_status = $2, updated_at = now()
        WHERE receiver_id = $1
    `, receiverID, status)
	if err != nil {
		return fmt.Errorf("set consignment status for receiver %d: %w", receiverID, mapSchemaErr(err))
	}
	return nil
}

// UpdateReceiverAssignment persists containers in use, delivered quantity
// and status after an allocation or removal.
func (r *TxRepo) UpdateReceiverAssignment(ctx context.Context, rec *domain.Receiver) error {
	containers := rec.Containers
	if containers == nil {
		containers = []string{}
	}
	ct, err := r.tx.Exec(ctx, `
        UPDATE receivers
        SET containers    = $2,
            qty_delivered = $3,
            status        = $4,
            updated_at    = now()
        WHERE id = $1
    `, rec.ID, containers, rec.QtyDelivered, rec.Status)
	if err != nil {
		return fmt.Errorf("update receiver %d: %w", rec.ID, mapSchemaErr(err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("receiver %d not found", rec.ID)
	}
	return nil
}

// UpdateReceiverStatus - set a receiver's shipment stage and ETA.
func (r *TxRepo) UpdateReceiverStatus(ctx context.Context, receiverID int64, status string, eta *time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE receivers
        SET status = $2, eta = $3, updated_at = now()
        WHERE id = $1
    `, receiverID, status, eta)
	if err != nil {
		return fmt.Errorf("update receiver status %d: %w", receiverID, mapSchemaErr(err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("receiver %d not found", receiverID)
	}
	return nil
}

// UpdateOrderAggregates - persist computed order totals, status and ETA.
func (r *TxRepo) UpdateOrderAggregates(ctx context.Context, orderID, totalAssigned int64, status string, eta *time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE orders
        SET total_assigned_quantity = $2,
            status                  = $3,
            eta                     = $4,
            updated_at              = now()
        WHERE id = $1
    `, orderID, totalAssigned, status, eta)
	if err != nil {
		return fmt.Errorf("update order %d: %w", orderID, mapSchemaErr(err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}
	return nil
}

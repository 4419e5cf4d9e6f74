package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// GetConsignmentForUpdate - lock and return a consignment row.
func (r *TxRepo) GetConsignmentForUpdate(ctx context.Context, consignmentID int64) (*domain.Consignment, error) {
	var c domain.Consignment
	err := r.tx.QueryRow(ctx, `
        SELECT id, number, status, eta, order_ids
        FROM consignments
        WHERE id = $1
        FOR UPDATE
    `, consignmentID).Scan(&c.ID, &c.Number, &c.Status, &c.ETA, &c.OrderIDs)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consignment %d: %w", consignmentID, mapSchemaErr(err))
	}
	return &c, nil
}

// UpdateConsignment - persist a consignment's status and ETA.
func (r *TxRepo) UpdateConsignment(ctx context.Context, c *domain.Consignment) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE consignments
        SET status = $2, eta = $3, updated_at = now()
        WHERE id = $1
    `, c.ID, c.Status, c.ETA)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.Conflict
		}
		return fmt.Errorf("update consignment %d: %w", c.ID, mapSchemaErr(err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("consignment %d not found", c.ID)
	}
	return nil
}

// InsertTrackingEntry appends one immutable tracking row.
func (r *TxRepo) InsertTrackingEntry(ctx context.Context, t *domain.TrackingEntry) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	affected := t.AffectedOrders
	if affected == nil {
		affected = []int64{}
	}
	err := r.tx.QueryRow(ctx, `
        INSERT INTO tracking_entries
            (kind, consignment_id, order_id, receiver_id,
             status_before, status_after, eta, affected_orders, actor, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id
    `, t.Kind, t.ConsignmentID, t.OrderID, t.ReceiverID,
		t.StatusBefore, t.StatusAfter, t.ETA, affected, t.Actor, t.CreatedAt).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert tracking entry: %w", mapSchemaErr(err))
	}
	return nil
}

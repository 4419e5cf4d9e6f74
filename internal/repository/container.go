package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

const containerColumns = `id, number, size, type, owner_type, location,
               manual_state, charter_start, charter_end`

func scanContainer(row pgx.Row, containerID int64) (*domain.Container, error) {
	var c domain.Container
	err := row.Scan(&c.ID, &c.Number, &c.Size, &c.Type, &c.OwnerType, &c.Location,
		&c.ManualState, &c.CharterStart, &c.CharterEnd)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get container %d: %w", containerID, mapSchemaErr(err))
	}
	return &c, nil
}

const latestEventQuery = `
        SELECT id, container_id, state, location, actor, notes, created_at
        FROM container_status_history
        WHERE container_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1`

func scanEvent(row pgx.Row) (*domain.ContainerStatusEvent, error) {
	var ev domain.ContainerStatusEvent
	err := row.Scan(&ev.ID, &ev.ContainerID, &ev.State, &ev.Location, &ev.Actor, &ev.Notes, &ev.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest container event: %w", mapSchemaErr(err))
	}
	return &ev, nil
}

// GetContainer - return a container row inside the transaction.
func (r *TxRepo) GetContainer(ctx context.Context, containerID int64) (*domain.Container, error) {
	return scanContainer(r.tx.QueryRow(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, containerID), containerID)
}

// LatestContainerEvent - most recent status-history row, nil when none.
func (r *TxRepo) LatestContainerEvent(ctx context.Context, containerID int64) (*domain.ContainerStatusEvent, error) {
	return scanEvent(r.tx.QueryRow(ctx, latestEventQuery, containerID))
}

// InsertContainerEvent appends one status-history row. History rows are
// never updated in place; the registry is audit-first.
func (r *TxRepo) InsertContainerEvent(ctx context.Context, ev *domain.ContainerStatusEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	err := r.tx.QueryRow(ctx, `
        INSERT INTO container_status_history (container_id, state, location, actor, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, ev.ContainerID, ev.State, ev.Location, ev.Actor, ev.Notes, ev.CreatedAt).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("insert container event: %w", mapSchemaErr(err))
	}
	return nil
}

// ContainerRepo is the read/registry side of the container store.
type ContainerRepo struct {
	db *pgxpool.Pool
}

// NewContainerRepo creates a new ContainerRepo.
func NewContainerRepo(db *pgxpool.Pool) *ContainerRepo {
	return &ContainerRepo{db: db}
}

// Get - return a container row, nil when missing.
func (r *ContainerRepo) Get(ctx context.Context, containerID int64) (*domain.Container, error) {
	return scanContainer(r.db.QueryRow(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, containerID), containerID)
}

// LatestEvent - most recent status-history row, nil when none.
func (r *ContainerRepo) LatestEvent(ctx context.Context, containerID int64) (*domain.ContainerStatusEvent, error) {
	return scanEvent(r.db.QueryRow(ctx, latestEventQuery, containerID))
}

// History - most recent status-history rows, newest first.
func (r *ContainerRepo) History(ctx context.Context, containerID int64, limit int) ([]domain.ContainerStatusEvent, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, container_id, state, location, actor, notes, created_at
        FROM container_status_history
        WHERE container_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `, containerID, limit)
	if err != nil {
		return nil, fmt.Errorf("container history %d: %w", containerID, mapSchemaErr(err))
	}
	defer rows.Close()

	var out []domain.ContainerStatusEvent
	for rows.Next() {
		var ev domain.ContainerStatusEvent
		if err := rows.Scan(&ev.ID, &ev.ContainerID, &ev.State, &ev.Location, &ev.Actor, &ev.Notes, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan container event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// InsertEvent appends one status-history row outside a transaction, used by
// manual registry updates.
func (r *ContainerRepo) InsertEvent(ctx context.Context, ev *domain.ContainerStatusEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRow(ctx, `
        INSERT INTO container_status_history (container_id, state, location, actor, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, ev.ContainerID, ev.State, ev.Location, ev.Actor, ev.Notes, ev.CreatedAt).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("insert container event: %w", mapSchemaErr(err))
	}
	return nil
}

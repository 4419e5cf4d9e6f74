package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// PolicyRepo loads the configurable status offset table.
type PolicyRepo struct {
	db *pgxpool.Pool
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(db *pgxpool.Pool) *PolicyRepo {
	return &PolicyRepo{db: db}
}

// Load reads the status offset policy. An empty table falls back to the
// built-in defaults; a missing table is a SchemaMismatch and fatal.
func (r *PolicyRepo) Load(ctx context.Context) (*domain.Policy, error) {
	rows, err := r.db.Query(ctx, `
        SELECT status, day_offset
        FROM status_offsets
        ORDER BY day_offset DESC, status
    `)
	if err != nil {
		return nil, fmt.Errorf("load status offsets: %w", mapSchemaErr(err))
	}
	defer rows.Close()

	var offsets []domain.StatusOffset
	for rows.Next() {
		var o domain.StatusOffset
		if err := rows.Scan(&o.Status, &o.DayOffset); err != nil {
			return nil, fmt.Errorf("scan status offset: %w", err)
		}
		offsets = append(offsets, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(offsets) == 0 {
		return domain.DefaultPolicy(), nil
	}
	return domain.NewPolicy(offsets), nil
}

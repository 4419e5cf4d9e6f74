package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PingTimeout bounds the liveness check on a fresh pool. The connect retry
// loop in the app layer reuses it as the per-attempt budget, so one attempt
// never outlives the ping it is waiting on.
const PingTimeout = 3 * time.Second

// NewPool creates and pings a new pgx connection pool. The pool is closed
// again when the ping fails, so callers never hold a half-alive pool.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/repository"
)

func TestConnectDbWithRetry_RetriesThenFails(t *testing.T) {
	orig := newPool
	defer func() { newPool = orig }()

	var attempts int
	newPool = func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		attempts++
		deadline, ok := ctx.Deadline()
		require.True(t, ok, "attempt context must carry a deadline")
		require.LessOrEqual(t, time.Until(deadline), repository.PingTimeout)
		return nil, errors.New("connection refused")
	}

	_, err := connectDbWithRetry(context.Background(), "dsn", 3, time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Equal(t, 3, attempts)
}

func TestConnectDbWithRetry_SucceedsMidway(t *testing.T) {
	orig := newPool
	defer func() { newPool = orig }()

	var attempts int
	pool := &pgxpool.Pool{}
	newPool = func(context.Context, string) (*pgxpool.Pool, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection refused")
		}
		return pool, nil
	}

	got, err := connectDbWithRetry(context.Background(), "dsn", 3, time.Millisecond)
	require.NoError(t, err)
	require.Same(t, pool, got)
	require.Equal(t, 2, attempts)
}

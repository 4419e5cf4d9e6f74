package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/support2-byte/Consolidate-sub000/internal/cache"
	"github.com/support2-byte/Consolidate-sub000/internal/config"
	"github.com/support2-byte/Consolidate-sub000/internal/http/handlers"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
)

func newTestLogger() *log.Logger {
	return log.New(log.Writer(), "", 0)
}

func setupTestContainer(t *testing.T) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"stdlog", func() *log.Logger { return newTestLogger() }},
		{"logger", func() logx.Logger { return logx.Nop() }},
		{"config", func() *config.Config {
			return &config.Config{Port: 8080, Engine: config.DefaultEngine()}
		}},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
		{"registry", prometheus.NewRegistry},
		{"metrics", func(reg *prometheus.Registry) *metrics.Set { return metrics.NewSet(reg) }},
		{"cache", func() *cache.CargoCache { return nil }},
		{"notifier", func() *notify.Notifier { return nil }},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerService(c))
	require.NoError(t, registerHTTP(c))

	return c
}

func verifyServer(t *testing.T, srv *http.Server) {
	t.Helper()

	require.NotNil(t, srv, "http.Server is nil")
	require.Equal(t, ":8080", srv.Addr)
	require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
	require.Greater(t, srv.ReadTimeout, time.Duration(0))
	require.Greater(t, srv.WriteTimeout, time.Duration(0))
	require.Greater(t, srv.IdleTimeout, time.Duration(0))
}

func TestRegisterServiceAndHTTP_ProvidesHttpServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t)

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		assignmentHandler *handlers.AssignmentHandler,
		statusHandler *handlers.StatusHandler,
		consignmentHandler *handlers.ConsignmentHandler,
		cargoHandler *handlers.CargoHandler,
		containerHandler *handlers.ContainerHandler,
	) {
		verifyServer(t, srv)
		require.NotNil(t, base)
		require.NotNil(t, assignmentHandler)
		require.NotNil(t, statusHandler)
		require.NotNil(t, consignmentHandler)
		require.NotNil(t, cargoHandler)
		require.NotNil(t, containerHandler)
	})
	require.NoError(t, err)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	err := registerCore(c, ctx)
	require.NoError(t, err)

	err = c.Invoke(func(
		gotCtx context.Context,
		stdlog *log.Logger,
		logger logx.Logger,
		m *metrics.Set,
		reg *prometheus.Registry,
	) {
		require.Equal(t, ctx, gotCtx)
		require.NotNil(t, stdlog)
		require.NotNil(t, logger)
		require.NotNil(t, m)
		require.NotNil(t, reg)
	})
	require.NoError(t, err)
}

func TestRegisterStores_UsesDbConnectAndProvidesPool(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	cfg := &config.Config{
		DB: config.DB{
			Host: "localhost",
			Port: "5432",
			User: "user",
			Pass: "pass",
			Name: "db",
		},
	}

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(func() logx.Logger { return logx.Nop() }))
	require.NoError(t, c.Provide(prometheus.NewRegistry))
	require.NoError(t, c.Provide(func(reg *prometheus.Registry) *metrics.Set { return metrics.NewSet(reg) }))

	stubPool := &pgxpool.Pool{}

	stubConnect := func(
		gotCtx context.Context,
		dsn string,
		retries int,
		delay time.Duration,
	) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return stubPool, nil
	}

	err := registerStores(c, stubConnect)
	require.NoError(t, err)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		require.Equal(t, stubPool, pool)
	})
	require.NoError(t, err)
}

func TestRegisterStores_DisabledCacheAndNotifier(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return &config.Config{} }))
	require.NoError(t, c.Provide(func() logx.Logger { return logx.Nop() }))
	require.NoError(t, c.Provide(prometheus.NewRegistry))
	require.NoError(t, c.Provide(func(reg *prometheus.Registry) *metrics.Set { return metrics.NewSet(reg) }))

	stubConnect := func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error) {
		return &pgxpool.Pool{}, nil
	}
	require.NoError(t, registerStores(c, stubConnect))

	// empty Redis addr and Kafka brokers mean both stay nil and every call
	// on them is a no-op
	err := c.Invoke(func(snapshots *cache.CargoCache, sink *notify.Notifier) {
		require.Nil(t, snapshots)
		require.Nil(t, sink)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	builder := NewContainerBuilder().
		WithDBConnect(func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, fmt.Errorf("db failed")
		})

	c, err := builder.build(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		_ = pool
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/support2-byte/Consolidate-sub000/internal/cache"
	"github.com/support2-byte/Consolidate-sub000/internal/config"
	"github.com/support2-byte/Consolidate-sub000/internal/http/handlers"
	"github.com/support2-byte/Consolidate-sub000/internal/http/router"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/repository"
	"github.com/support2-byte/Consolidate-sub000/internal/service/assignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/consignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/registry"
	"github.com/support2-byte/Consolidate-sub000/internal/service/status"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStores(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *log.Logger { return log.Default() },
		config.Load,
		NewLogger,
		prometheus.NewRegistry,
		func(reg *prometheus.Registry) *metrics.Set { return metrics.NewSet(reg) },
	)
}

func registerStores(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	providerCache := func(ctx context.Context, cfg *config.Config) (*cache.CargoCache, error) {
		return cache.New(ctx, cfg.Redis.Addr)
	}
	providerNotifier := func(cfg *config.Config, logger logx.Logger, m *metrics.Set) (*notify.Notifier, error) {
		return notify.New(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, m.NotificationFailuresTotal)
	}
	return provideAll(container, providerDB, providerCache, providerNotifier)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewBookingRepo,
		repository.NewLedgerRepo,
		repository.NewContainerRepo,
		repository.NewPolicyRepo,
		func(
			repo *repository.BookingRepo,
			policies *repository.PolicyRepo,
			sink *notify.Notifier,
			snapshots *cache.CargoCache,
			m *metrics.Set,
			logger logx.Logger,
			cfg *config.Config,
		) *assignment.Engine {
			return assignment.NewEngine(repo, policies, sink, snapshots, m, logger, cfg.Engine.OperationTimeout)
		},
		func(
			repo *repository.BookingRepo,
			ledger *repository.LedgerRepo,
			snapshots *cache.CargoCache,
			logger logx.Logger,
			cfg *config.Config,
		) *assignment.Reader {
			return assignment.NewReader(repo, ledger, snapshots, logger, cfg.Engine.OperationTimeout)
		},
		func(
			repo *repository.BookingRepo,
			policies *repository.PolicyRepo,
			sink *notify.Notifier,
			m *metrics.Set,
			logger logx.Logger,
			cfg *config.Config,
		) *status.Service {
			agg := status.Aggregator{DisableMajorityOverride: cfg.Engine.DisableMajorityOverride}
			return status.NewService(repo, policies, sink, agg, m, logger, cfg.Engine.OperationTimeout)
		},
		func(
			repo *repository.BookingRepo,
			policies *repository.PolicyRepo,
			sink *notify.Notifier,
			m *metrics.Set,
			logger logx.Logger,
			cfg *config.Config,
		) *consignment.Service {
			return consignment.NewService(repo, policies, sink, m, logger, cfg.Engine.OperationTimeout)
		},
		func(containers *repository.ContainerRepo, logger logx.Logger, cfg *config.Config) *registry.Service {
			return registry.NewService(containers, logger, cfg.Engine.OperationTimeout)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	routerProvider := func(
		base *handlers.Handlers,
		a *handlers.AssignmentHandler,
		st *handlers.StatusHandler,
		c *handlers.ConsignmentHandler,
		cargo *handlers.CargoHandler,
		cont *handlers.ContainerHandler,
		logger logx.Logger,
		m *metrics.Set,
		reg *prometheus.Registry,
	) http.Handler {
		return router.New(router.Deps{
			Base:        base,
			Assignment:  a,
			Status:      st,
			Consignment: c,
			Cargo:       cargo,
			Container:   cont,
			Logger:      logger,
			Metrics:     m,
			Registry:    reg,
		})
	}
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentHandler,
		handlers.NewCargoUsecase,
		handlers.NewCargoHandler,
		handlers.NewStatusUsecase,
		handlers.NewStatusHandler,
		handlers.NewConsignmentUsecase,
		handlers.NewConsignmentHandler,
		handlers.NewContainerUsecase,
		handlers.NewContainerHandler,
		routerProvider,
		serverProvider,
	)
}

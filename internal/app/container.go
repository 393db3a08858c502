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

	"dairyfresh-fulfillment/internal/config"
	"dairyfresh-fulfillment/internal/gateway/products"
	"dairyfresh-fulfillment/internal/http/handlers"
	"dairyfresh-fulfillment/internal/http/pprofserver"
	"dairyfresh-fulfillment/internal/http/router"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/repository"
	"dairyfresh-fulfillment/internal/service/assignment"
	"dairyfresh-fulfillment/internal/service/drivers"
	"dairyfresh-fulfillment/internal/service/generation"
	"dairyfresh-fulfillment/internal/service/jobs"
	"dairyfresh-fulfillment/internal/service/status"
	"dairyfresh-fulfillment/internal/service/subscriptions"
	"dairyfresh-fulfillment/internal/transport/kafka"
)

// sweepInterval is the period of the background order generation loop.
type sweepInterval time.Duration

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

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the HTTP service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the kafka worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
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
		config.Load,
		NewLogger,
		provideMetrics,
		func(cfg *config.Config) sweepInterval {
			return sweepInterval(cfg.Generation.SweepInterval)
		},
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(cfg.DB.DSN()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pool, nil
	}
	return provideAll(container, providerDB)
}

type catalogIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

func newCatalog(in catalogIn) *products.RetryingCatalog {
	base := products.NewHTTPCatalog(in.Cfg.Catalog.BaseURL)
	return products.NewRetryingCatalog(base, in.Logger, in.Retries, products.RetryConfig{
		MaxAttempts: in.Cfg.Catalog.MaxAttempts,
		BaseDelay:   in.Cfg.Catalog.BaseDelay,
		MaxDelay:    in.Cfg.Catalog.MaxDelay,
	})
}

type generationIn struct {
	dig.In

	Subs      *repository.SubscriptionRepo
	Orders    *repository.OrderRepo
	Catalog   *products.RetryingCatalog
	Logger    logx.Logger
	Generated prometheus.Counter `name:"orders_generated_total"`
	Failures  prometheus.Counter `name:"order_generation_failures_total"`
}

func newGenerationService(in generationIn) *generation.Service {
	return generation.NewService(in.Subs, in.Orders, in.Catalog, in.Logger, in.Generated, in.Failures)
}

type statusIn struct {
	dig.In

	Deliveries *repository.DeliveryRepo
	Logger     logx.Logger
	Invalid    prometheus.Counter `name:"invalid_transitions_total"`
}

func newStatusService(in statusIn) *status.Service {
	return status.NewService(in.Deliveries, in.Logger, in.Invalid)
}

type assignmentIn struct {
	dig.In

	Deliveries *repository.DeliveryRepo
	Logger     logx.Logger
	Assigned   prometheus.Counter `name:"deliveries_assigned_total"`
}

func newAssignmentService(in assignmentIn) *assignment.Service {
	return assignment.NewService(in.Deliveries, in.Logger, in.Assigned)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		repository.NewSubscriptionRepo,
		repository.NewOrderRepo,
		repository.NewDeliveryRepo,
		repository.NewDriverRepo,
		newCatalog,
		newGenerationService,
		newStatusService,
		newAssignmentService,
		func(repo *repository.DriverRepo, logger logx.Logger) *drivers.Service {
			return drivers.NewService(repo, logger)
		},
		func(repo *repository.SubscriptionRepo, logger logx.Logger) *subscriptions.Service {
			return subscriptions.NewService(repo, logger)
		},
		func(gen *generation.Service, asg *assignment.Service, logger logx.Logger) *jobs.Processor {
			return jobs.NewProcessor(gen, asg, logger)
		},
	)
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func providePprofServer(cfg *config.Config) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: &http.Server{
		Addr: cfg.Pprof.Addr,
		Handler: pprofserver.Handler(pprofserver.Config{
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

func registerHTTP(container *dig.Container) error {
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
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		handlers.New,
		handlers.NewDriverUsecase,
		handlers.NewDriverHandler,
		handlers.NewGenerationUsecase,
		handlers.NewFulfillmentHandler,
		handlers.NewStatusUsecase,
		handlers.NewAssignmentUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewSubscriptionUsecase,
		handlers.NewSubscriptionHandler,
		handlers.NewReportsHandler,
		router.New,
		serverProvider,
		providePprofServer,
	)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		makeJobsKafka,
		func(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
		},
	)
}

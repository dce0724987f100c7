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

	"service-cleaning-booking/internal/config"
	"service-cleaning-booking/internal/http/handlers"
	"service-cleaning-booking/internal/http/router"
	"service-cleaning-booking/internal/logx"
	"service-cleaning-booking/internal/metrics"
	"service-cleaning-booking/internal/notify"
	"service-cleaning-booking/internal/ports/assignmenttx"
	"service-cleaning-booking/internal/repository"
	"service-cleaning-booking/internal/repository/memstore"
	"service-cleaning-booking/internal/service/assignment"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

// senderCloser releases the transport behind the notification sender.
type senderCloser func() error

var newSyncProducer = notify.NewSyncProducer

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	loadConfig func() (*config.Config, error)
	registerer prometheus.Registerer
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		registerer: prometheus.DefaultRegisterer,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfig replaces config loading with a fixed configuration.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithRegisterer sets the Prometheus registerer used for service metrics.
func (b *ContainerBuilder) WithRegisterer(r prometheus.Registerer) *ContainerBuilder {
	if r != nil {
		b.registerer = r
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

	if err := registerCore(container, ctx, b.loadConfig, b.registerer); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	var storage string
	if err := container.Invoke(func(cfg *config.Config) { storage = cfg.Storage }); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch storage {
	case config.StorageMemory:
		if err := registerMemory(container); err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
	default:
		if err := registerDb(container, b.dbConnect); err != nil {
			return nil, fmt.Errorf("DB: %w", err)
		}
	}

	if err := registerNotify(container); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
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

func registerCore(
	container *dig.Container,
	ctx context.Context,
	load func() (*config.Config, error),
	reg prometheus.Registerer,
) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() prometheus.Registerer { return reg },
		load,
		NewLogger,
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pool, nil
	}
	providerRepo := func(pool *pgxpool.Pool, cfg *config.Config) assignmenttx.Runner {
		return repository.NewAssignmentRepo(pool, cfg.DB.LockTimeout)
	}
	return provideAll(container, providerDB, providerRepo)
}

func registerMemory(container *dig.Container) error {
	return provideAll(container,
		func(logger logx.Logger) assignmenttx.Runner {
			store := memstore.New()
			seedDemo(store)
			logger.Warn("using in-memory storage, data is lost on restart")
			return store
		},
	)
}

func registerNotify(container *dig.Container) error {
	providerSender := func(cfg *config.Config, logger logx.Logger) (notify.Sender, senderCloser, error) {
		if !cfg.Kafka.Enabled() {
			logger.Info("kafka not configured, notifications are written to the log")
			return notify.NewLogSender(logger), func() error { return nil }, nil
		}
		producer, err := newSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		s := notify.NewKafkaSender(producer, cfg.Kafka.NotificationsTopic)
		return s, s.Close, nil
	}
	providerDispatcher := func(
		cfg *config.Config,
		logger logx.Logger,
		reg prometheus.Registerer,
		next notify.Sender,
	) (*notify.AsyncDispatcher, error) {
		retries, err := metrics.RegisterOrExisting(reg, metrics.NewNotificationRetriesTotal())
		if err != nil {
			return nil, fmt.Errorf("register notification_retries_total: %w", err)
		}
		delivered, err := metrics.RegisterOrExisting(reg, metrics.NewNotificationsDeliveredTotal())
		if err != nil {
			return nil, fmt.Errorf("register notifications_delivered_total: %w", err)
		}

		logger = logger.With(logx.String("component", "notify"))
		sender := notify.NewRetryingSender(next, logger, retries, notify.RetryConfig{
			MaxAttempts: cfg.Notify.MaxAttempts,
			BaseDelay:   cfg.Notify.BaseDelay,
			MaxDelay:    cfg.Notify.MaxDelay,
		})
		return notify.NewAsyncDispatcher(sender, logger, notify.DispatcherConfig{
			QueueSize: cfg.Notify.QueueSize,
			Workers:   cfg.Notify.Workers,
		}, delivered), nil
	}
	return provideAll(container, providerSender, providerDispatcher)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(reg prometheus.Registerer) (*metrics.Assignment, error) {
			m := metrics.NewAssignment()
			if err := m.Register(reg); err != nil {
				return nil, fmt.Errorf("register assignment metrics: %w", err)
			}
			return m, nil
		},
		func(d *notify.AsyncDispatcher) assignment.Dispatcher { return d },
		func(
			repo assignmenttx.Runner,
			dispatcher assignment.Dispatcher,
			cfg *config.Config,
			logger logx.Logger,
			m *metrics.Assignment,
		) *assignment.Service {
			return assignment.NewService(repo, dispatcher, assignment.Config{
				OperationTimeout:       cfg.Assignment.OperationTimeout,
				RequireRejectionReason: cfg.Assignment.RequireRejectionReason,
				DefaultRejectionReason: cfg.Assignment.DefaultRejectionReason,
			}, logger.With(logx.String("component", "assignment")), m)
		},
	)
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
	type healthDeps struct {
		dig.In

		Logger logx.Logger
		Pool   *pgxpool.Pool `optional:"true"`
	}
	handlersProvider := func(d healthDeps) *handlers.Handlers {
		var ping handlers.Pinger
		if d.Pool != nil {
			ping = d.Pool.Ping
		}
		return handlers.New(d.Logger, ping)
	}
	return provideAll(container,
		handlersProvider,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentHandler,
		func(reg prometheus.Registerer) (*metrics.HTTP, error) {
			m, err := metrics.RegisterHTTP(reg)
			if err != nil {
				return nil, fmt.Errorf("register http metrics: %w", err)
			}
			return m, nil
		},
		router.New,
		serverProvider,
	)
}

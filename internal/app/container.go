// Package app wires repositories, handlers and infrastructure into a Container
// shared by the CLI, the HTTP API, the MCP server and the worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	catalogCommands "github.com/supplifit/supplifit/internal/catalog/application/commands"
	catalogQueries "github.com/supplifit/supplifit/internal/catalog/application/queries"
	catalogDomain "github.com/supplifit/supplifit/internal/catalog/domain"
	partnersCommands "github.com/supplifit/supplifit/internal/partners/application/commands"
	partnersQueries "github.com/supplifit/supplifit/internal/partners/application/queries"
	partnersDomain "github.com/supplifit/supplifit/internal/partners/domain"
	storeCache "github.com/supplifit/supplifit/internal/partners/infrastructure/cache"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	_ "github.com/supplifit/supplifit/internal/shared/infrastructure/database/postgres"
	_ "github.com/supplifit/supplifit/internal/shared/infrastructure/database/sqlite"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/migrations"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	subscriptionsQueries "github.com/supplifit/supplifit/internal/subscriptions/application/queries"
	subscriptionsDomain "github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/infrastructure/notify"
	"github.com/supplifit/supplifit/pkg/config"
	"github.com/supplifit/supplifit/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Clock   sharedDomain.Clock
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, nil when not configured or unreachable in development.
	RedisClient *redis.Client

	// Repositories
	StoreRepo        partnersDomain.StoreRepository
	PlanRepo         subscriptionsDomain.PlanRepository
	SubscriptionRepo subscriptionsDomain.SubscriptionRepository
	CategoryRepo     catalogDomain.CategoryRepository
	SupplementRepo   catalogDomain.SupplementRepository
	OutboxRepo       outbox.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	CommissionPolicy partnersDomain.CommissionPolicy

	// Partner handlers
	CreateStoreHandler         *partnersCommands.CreateStoreHandler
	UpdateStoreHandler         *partnersCommands.UpdateStoreHandler
	ChangeStoreStatusHandler   *partnersCommands.ChangeStoreStatusHandler
	CalculateCommissionHandler *partnersQueries.CalculateCommissionHandler
	StoreQueries               *partnersQueries.StoreQueries

	// Subscription handlers
	CreatePlanHandler           *subscriptionsCommands.CreatePlanHandler
	UpdatePlanHandler           *subscriptionsCommands.UpdatePlanHandler
	SetPlanActiveHandler        *subscriptionsCommands.SetPlanActiveHandler
	CreateSubscriptionHandler   *subscriptionsCommands.CreateSubscriptionHandler
	ActivateSubscriptionHandler *subscriptionsCommands.ActivateSubscriptionHandler
	CancelSubscriptionHandler   *subscriptionsCommands.CancelSubscriptionHandler
	RenewSubscriptionHandler    *subscriptionsCommands.RenewSubscriptionHandler
	ConsumeUnitHandler          *subscriptionsCommands.ConsumeUnitHandler
	ExpireDueHandler            *subscriptionsCommands.ExpireDueHandler
	SubscriptionQueries         *subscriptionsQueries.SubscriptionQueries

	// Catalog handlers
	CreateCategoryHandler   *catalogCommands.CreateCategoryHandler
	DeleteCategoryHandler   *catalogCommands.DeleteCategoryHandler
	CreateSupplementHandler *catalogCommands.CreateSupplementHandler
	UpdateSupplementHandler *catalogCommands.UpdateSupplementHandler
	DeleteSupplementHandler *catalogCommands.DeleteSupplementHandler
	CatalogQueries          *catalogQueries.CatalogQueries

	ExpiryNotifier  *notify.ExpiryNotifier
	OutboxProcessor *outbox.Processor
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	clock     sharedDomain.Clock
	publisher eventbus.Publisher
}

// WithClock replaces the system clock.
func WithClock(clock sharedDomain.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithPublisher replaces the broker-backed publisher.
func WithPublisher(p eventbus.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// NewContainer connects to the configured backends and builds every handler.
// An empty DatabaseURL selects local SQLite mode, which migrates on startup.
// Redis and RabbitMQ are optional in development.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	o := options{clock: sharedDomain.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	metrics := observability.NewInMemoryMetrics()
	c := &Container{
		Config:           cfg,
		Logger:           logger,
		Metrics:          metrics,
		Clock:            o.clock,
		Health:           observability.NewHealthRegistry(),
		CommissionPolicy: partnersDomain.NewCommissionPolicy(cfg.EnterpriseCommissionCap),
	}

	if err := c.connectDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}

	repos, err := NewRepositoryFactory(c.DBConn).CreateAll()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}
	c.StoreRepo = repos.Stores
	c.PlanRepo = repos.Plans
	c.SubscriptionRepo = repos.Subscriptions
	c.CategoryRepo = repos.Categories
	c.SupplementRepo = repos.Supplements
	c.OutboxRepo = repos.Outbox
	c.UnitOfWork = database.NewUnitOfWork(c.DBConn)

	if c.RedisClient != nil {
		c.StoreRepo = storeCache.NewStoreRepository(repos.Stores, c.RedisClient, cfg.StoreCacheTTL, logger, metrics)
	}

	if o.publisher != nil {
		c.EventPublisher = o.publisher
	} else if err := c.connectPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	c.buildHandlers()

	logger.Info("container ready",
		"driver", c.DBDriver,
		"redis", c.RedisClient != nil,
		"enterprise_cap", c.CommissionPolicy.EnterpriseCap().String(),
	)
	return c, nil
}

func (c *Container) connectDatabase(ctx context.Context) error {
	cfg := c.Config
	driver := database.DetectDriver(cfg.DatabaseURL)

	sqlitePath := cfg.SQLitePath
	if driver == database.DriverSQLite && sqlitePath == "" {
		sqlitePath = database.DefaultSQLitePath()
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: sqlitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	c.Logger.Info("connected to database", "driver", c.DBDriver)

	// Local mode has no separate migrate step.
	if c.DBDriver == database.DriverSQLite {
		applied, err := migrations.Run(ctx, conn)
		if err != nil {
			_ = conn.Close()
			c.DBConn = nil
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(applied) > 0 {
			c.Logger.Info("applied migrations", "versions", applied)
		}
	}
	return nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	cfg := c.Config
	if cfg.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, caching disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, caching disabled", "error", err)
		return nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) connectPublisher() error {
	cfg := c.Config
	if cfg.RabbitMQURL == "" {
		bus := eventbus.NewInProcessEventBus(c.Logger)
		bus.RegisterConsumer(notify.NewLogConsumer(c.Logger))
		c.EventPublisher = bus
		c.Logger.Info("using in-process event bus")
		return nil
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	breaker := eventbus.DefaultBreakerConfig()
	if cfg.BreakerFailures > 0 {
		breaker.ConsecutiveFailures = uint32(cfg.BreakerFailures)
	}
	if cfg.BreakerOpenTimeout > 0 {
		breaker.OpenTimeout = cfg.BreakerOpenTimeout
	}
	c.EventPublisher = eventbus.NewBreakerPublisher(rabbit, breaker, c.Logger)
	c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(func(context.Context) error {
		if rabbit.IsClosed() {
			return errors.New("connection closed")
		}
		return nil
	}))
	c.Logger.Info("connected to RabbitMQ")
	return nil
}

func (c *Container) buildHandlers() {
	cfg := c.Config

	// Partner handlers
	c.CreateStoreHandler = partnersCommands.NewCreateStoreHandler(c.StoreRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.UpdateStoreHandler = partnersCommands.NewUpdateStoreHandler(c.StoreRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.ChangeStoreStatusHandler = partnersCommands.NewChangeStoreStatusHandler(c.StoreRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CalculateCommissionHandler = partnersQueries.NewCalculateCommissionHandler(c.StoreRepo, c.CommissionPolicy, c.Logger, c.Metrics)
	c.StoreQueries = partnersQueries.NewStoreQueries(c.StoreRepo)

	// Expiry notices skip the outbox, so they are deduplicated instead.
	var dedupe notify.Deduper = notify.NewMemoryDeduper()
	if c.RedisClient != nil {
		dedupe = notify.NewRedisDeduper(c.RedisClient, c.Logger)
	}
	c.ExpiryNotifier = notify.NewExpiryNotifier(c.EventPublisher, dedupe, cfg.ExpiryNoticeTTL, c.Clock, c.Logger, c.Metrics)

	// Subscription handlers
	c.CreatePlanHandler = subscriptionsCommands.NewCreatePlanHandler(c.PlanRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.UpdatePlanHandler = subscriptionsCommands.NewUpdatePlanHandler(c.PlanRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.SetPlanActiveHandler = subscriptionsCommands.NewSetPlanActiveHandler(c.PlanRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CreateSubscriptionHandler = subscriptionsCommands.NewCreateSubscriptionHandler(c.PlanRepo, c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.ActivateSubscriptionHandler = subscriptionsCommands.NewActivateSubscriptionHandler(c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CancelSubscriptionHandler = subscriptionsCommands.NewCancelSubscriptionHandler(c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.RenewSubscriptionHandler = subscriptionsCommands.NewRenewSubscriptionHandler(c.PlanRepo, c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.ConsumeUnitHandler = subscriptionsCommands.NewConsumeUnitHandler(c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.ExpireDueHandler = subscriptionsCommands.NewExpireDueHandler(
		c.SubscriptionRepo, c.OutboxRepo, c.UnitOfWork, c.Clock,
		cfg.ExpiryNoticeWindow, c.ExpiryNotifier, c.Logger, c.Metrics,
	)
	c.SubscriptionQueries = subscriptionsQueries.NewSubscriptionQueries(c.PlanRepo, c.SubscriptionRepo, c.Clock)

	// Catalog handlers
	c.CreateCategoryHandler = catalogCommands.NewCreateCategoryHandler(c.CategoryRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.DeleteCategoryHandler = catalogCommands.NewDeleteCategoryHandler(c.CategoryRepo, c.SupplementRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CreateSupplementHandler = catalogCommands.NewCreateSupplementHandler(c.CategoryRepo, c.SupplementRepo, c.OutboxRepo, c.UnitOfWork, c.Clock, c.Metrics)
	c.UpdateSupplementHandler = catalogCommands.NewUpdateSupplementHandler(c.CategoryRepo, c.SupplementRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.DeleteSupplementHandler = catalogCommands.NewDeleteSupplementHandler(c.SupplementRepo, c.OutboxRepo, c.UnitOfWork, c.Clock)
	c.CatalogQueries = catalogQueries.NewCatalogQueries(c.CategoryRepo, c.SupplementRepo)

	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorCfg.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, c.Logger).WithMetrics(c.Metrics)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}

package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogCommands "github.com/supplifit/supplifit/internal/catalog/application/commands"
	catalogQueries "github.com/supplifit/supplifit/internal/catalog/application/queries"
	partnersCommands "github.com/supplifit/supplifit/internal/partners/application/commands"
	partnersQueries "github.com/supplifit/supplifit/internal/partners/application/queries"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	subscriptionsDomain "github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/config"
	"github.com/supplifit/supplifit/pkg/observability"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:                  "development",
		SQLitePath:              filepath.Join(t.TempDir(), "supplifit.db"),
		OutboxBatchSize:         10,
		OutboxMaxRetries:        3,
		ExpiryNoticeWindow:      7,
		EnterpriseCommissionCap: decimal.NewFromInt(5000),
	}
}

func newTestContainer(t *testing.T, cfg *config.Config, opts ...Option) *Container {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	c, err := NewContainer(context.Background(), cfg, logger, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewContainer_LocalMode(t *testing.T) {
	c := newTestContainer(t, testConfig(t))

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.Nil(t, c.RedisClient)
	assert.IsType(t, &eventbus.InProcessEventBus{}, c.EventPublisher)
	assert.NotNil(t, c.OutboxProcessor)
	assert.NotNil(t, c.ExpireDueHandler)

	health := c.Health.Check(context.Background())
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Checks, "database")
}

func TestNewContainer_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	c := newTestContainer(t, cfg)

	require.NotNil(t, c.RedisClient)
	health := c.Health.Check(context.Background())
	assert.Contains(t, health.Checks, "redis")
}

func TestNewContainer_UnreachableRedisInDevelopment(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + addr

	c := newTestContainer(t, cfg)
	assert.Nil(t, c.RedisClient)
}

func TestNewContainer_UnreachableRedisInProduction(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.AppEnv = "production"
	cfg.RedisURL = "redis://" + addr

	_, err := NewContainer(context.Background(), cfg, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestContainer_EndToEnd(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	publisher := &eventbus.RecordingPublisher{}
	clock := sharedDomain.FixedClockOn(sharedDomain.MustParseDate("2024-01-15"))
	c := newTestContainer(t, cfg, WithClock(clock), WithPublisher(publisher))

	store, err := c.CreateStoreHandler.Handle(ctx, partnersCommands.CreateStoreCommand{
		OwnerID:            uuid.New(),
		Tier:               "enterprise",
		Name:               "Vitamin Hub",
		RegistrationNumber: "12345678000199",
	})
	require.NoError(t, err)

	commission, err := c.CalculateCommissionHandler.Handle(ctx, partnersQueries.CalculateCommissionQuery{
		StoreID: store.StoreID,
		Amount:  decimal.NewFromInt(300000),
	})
	require.NoError(t, err)
	assert.True(t, commission.Capped)
	assert.True(t, commission.Commission.Equal(decimal.NewFromInt(5000)))

	plan, err := c.CreatePlanHandler.Handle(ctx, subscriptionsCommands.CreatePlanCommand{
		Name:           "Pro",
		PlanType:       "pro",
		Price:          decimal.RequireFromString("149.90"),
		UnitsPerPeriod: 10,
	})
	require.NoError(t, err)

	sub, err := c.CreateSubscriptionHandler.Handle(ctx, subscriptionsCommands.CreateSubscriptionCommand{
		UserID: uuid.New(),
		PlanID: plan.PlanID,
	})
	require.NoError(t, err)

	sub, err = c.ActivateSubscriptionHandler.Handle(ctx, subscriptionsCommands.ActivateSubscriptionCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	assert.Equal(t, subscriptionsDomain.StatusActive, sub.Status())

	// Three days before the end date the sweep announces the subscription.
	clock.Advance(27 * 24 * time.Hour)
	result, err := c.ExpireDueHandler.Handle(ctx, subscriptionsCommands.ExpireDueCommand{})
	require.NoError(t, err)
	assert.Empty(t, result.Expired)
	require.Len(t, result.SoonToExpire, 1)
	assert.Equal(t, 1, result.Notified)

	require.NoError(t, c.OutboxProcessor.ProcessOnce(ctx))

	var keys []string
	for _, m := range publisher.Messages() {
		keys = append(keys, m.RoutingKey)
	}
	assert.Contains(t, keys, subscriptionsDomain.RoutingKeySubscriptionExpiringSoon)
	assert.Contains(t, keys, subscriptionsDomain.RoutingKeySubscriptionActivated)
	assert.Positive(t, c.Metrics.GetCounter(observability.MetricOutboxPublished,
		observability.T("routing_key", subscriptionsDomain.RoutingKeySubscriptionCreated)))
}

func TestContainer_UpdatesAndCatalog(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	c := newTestContainer(t, cfg, WithPublisher(&eventbus.RecordingPublisher{}))

	created, err := c.CreateStoreHandler.Handle(ctx, partnersCommands.CreateStoreCommand{
		OwnerID:            uuid.New(),
		Tier:               "regular",
		Name:               "Vitamin Hub",
		RegistrationNumber: "12345678000199",
	})
	require.NoError(t, err)

	// Warm the cache, then update through the cache-wrapped repository.
	_, err = c.StoreQueries.Get(ctx, partnersQueries.GetStoreQuery{StoreID: created.StoreID})
	require.NoError(t, err)
	rate := decimal.RequireFromString("0.07")
	_, err = c.UpdateStoreHandler.Handle(ctx, partnersCommands.UpdateStoreCommand{StoreID: created.StoreID, CommissionRate: &rate})
	require.NoError(t, err)
	dto, err := c.StoreQueries.Get(ctx, partnersQueries.GetStoreQuery{StoreID: created.StoreID})
	require.NoError(t, err)
	assert.Equal(t, "0.07", dto.CommissionRate)

	plan, err := c.CreatePlanHandler.Handle(ctx, subscriptionsCommands.CreatePlanCommand{
		Name: "Basic", PlanType: "basic", Price: decimal.RequireFromString("49.90"), UnitsPerPeriod: 4,
	})
	require.NoError(t, err)
	_, err = c.SetPlanActiveHandler.Handle(ctx, subscriptionsCommands.SetPlanActiveCommand{PlanID: plan.PlanID, Active: false})
	require.NoError(t, err)
	_, err = c.CreateSubscriptionHandler.Handle(ctx, subscriptionsCommands.CreateSubscriptionCommand{UserID: uuid.New(), PlanID: plan.PlanID})
	assert.ErrorIs(t, err, subscriptionsDomain.ErrPlanInactive)

	category, err := c.CreateCategoryHandler.Handle(ctx, catalogCommands.CreateCategoryCommand{Name: "Protein"})
	require.NoError(t, err)
	_, err = c.CreateSupplementHandler.Handle(ctx, catalogCommands.CreateSupplementCommand{
		CategoryID: category.ID(), Name: "Whey", Brand: "Growth", Type: "protein", Price: decimal.RequireFromString("99.90"),
	})
	require.NoError(t, err)
	listed, err := c.CatalogQueries.Supplements(ctx, catalogQueries.SearchSupplementsQuery{Type: "protein"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Protein", listed[0].CategoryName)
}

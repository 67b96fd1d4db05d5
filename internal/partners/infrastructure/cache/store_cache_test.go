package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplifit/supplifit/internal/partners/domain"
	"github.com/supplifit/supplifit/internal/partners/infrastructure/persistence"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
	"github.com/supplifit/supplifit/pkg/observability"
)

func setup(t *testing.T) (*StoreRepository, *persistence.SQLiteStoreRepository, *miniredis.Miniredis, *observability.InMemoryMetrics, database.Connection) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	conn := dbtest.NewSQLite(t)
	inner := persistence.NewSQLiteStoreRepository(conn)
	metrics := observability.NewInMemoryMetrics()
	return NewStoreRepository(inner, client, time.Minute, nil, metrics), inner, mr, metrics, conn
}

func seedStore(t *testing.T, repo domain.StoreRepository) *domain.Store {
	t.Helper()
	store, err := domain.NewStore(uuid.New(), domain.TierPremium, domain.StoreDetails{
		Name:               "Cached Nutrition",
		RegistrationNumber: "44555666000177",
	}, nil, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), store))
	store.ClearDomainEvents()
	return store
}

func TestStoreRepository_ReadThrough(t *testing.T) {
	repo, _, mr, metrics, _ := setup(t)
	ctx := context.Background()
	store := seedStore(t, repo)

	first, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mr.Exists(keyPrefix+store.ID().String()))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricStoreCacheMisses))

	second, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricStoreCacheHits))
	assert.Equal(t, first.Name(), second.Name())
	assert.Equal(t, first.Tier(), second.Tier())
	assert.True(t, first.CommissionRate().Equal(second.CommissionRate()))
	assert.Equal(t, first.Version(), second.Version())
	assert.True(t, first.CreatedAt().Equal(second.CreatedAt()))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(keyPrefix+store.ID().String()))
}

func TestStoreRepository_SaveInvalidates(t *testing.T) {
	repo, _, mr, _, _ := setup(t)
	ctx := context.Background()
	store := seedStore(t, repo)

	cached, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	require.NoError(t, cached.ChangeStatus(domain.StoreStatusApproved, time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, cached))
	assert.False(t, mr.Exists(keyPrefix+store.ID().String()))

	fresh, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStatusApproved, fresh.Status())
}

func TestStoreRepository_MissingStoreIsNotCached(t *testing.T) {
	repo, _, mr, _, _ := setup(t)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Empty(t, mr.Keys())
}

func TestStoreRepository_TransactionBypassesCache(t *testing.T) {
	repo, _, mr, metrics, conn := setup(t)
	ctx := context.Background()
	store := seedStore(t, repo)

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	found, err := repo.FindByID(txCtx, store.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NoError(t, uow.Rollback(txCtx))

	assert.Empty(t, mr.Keys())
	assert.Zero(t, metrics.GetCounter(observability.MetricStoreCacheMisses))
}

func TestStoreRepository_RedisDownFallsBack(t *testing.T) {
	repo, _, mr, _, _ := setup(t)
	ctx := context.Background()
	store := seedStore(t, repo)

	mr.Close()

	found, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, store.ID(), found.ID())
}

func TestStoreRepository_SaveInTransactionInvalidatesAfterCommit(t *testing.T) {
	repo, _, mr, _, conn := setup(t)
	ctx := context.Background()
	store := seedStore(t, repo)
	key := keyPrefix + store.ID().String()

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	loaded, err := repo.FindByID(txCtx, store.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.ChangeStatus(domain.StoreStatusApproved, time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(txCtx, loaded))

	// A reader outside the transaction caches the pre-commit row.
	repo.put(ctx, store)
	require.True(t, mr.Exists(key))

	require.NoError(t, uow.Commit(txCtx))
	assert.False(t, mr.Exists(key))

	fresh, err := repo.FindByID(ctx, store.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStatusApproved, fresh.Status())
}

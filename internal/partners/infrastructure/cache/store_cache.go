// Package cache provides a Redis read-through cache for partner stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/pkg/observability"
)

const keyPrefix = "supplifit:store:"

// DefaultTTL bounds how long a cached store may be served.
const DefaultTTL = 5 * time.Minute

type storeSnapshot struct {
	ID                 uuid.UUID       `json:"id"`
	OwnerID            uuid.UUID       `json:"owner_id"`
	Name               string          `json:"name"`
	RegistrationNumber string          `json:"registration_number"`
	Address            string          `json:"address"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Description        string          `json:"description"`
	Status             string          `json:"status"`
	Tier               string          `json:"tier"`
	CommissionRate     decimal.Decimal `json:"commission_rate"`
	Featured           bool            `json:"featured"`
	PrioritySupport    bool            `json:"priority_support"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func snapshotOf(s *domain.Store) storeSnapshot {
	d := s.Details()
	return storeSnapshot{
		ID:                 s.ID(),
		OwnerID:            s.OwnerID(),
		Name:               d.Name,
		RegistrationNumber: d.RegistrationNumber,
		Address:            d.Address,
		Phone:              d.Phone,
		Email:              d.Email,
		Description:        d.Description,
		Status:             string(s.Status()),
		Tier:               string(s.Tier()),
		CommissionRate:     s.CommissionRate(),
		Featured:           s.Featured(),
		PrioritySupport:    s.PrioritySupport(),
		Version:            s.Version(),
		CreatedAt:          s.CreatedAt(),
		UpdatedAt:          s.UpdatedAt(),
	}
}

func (s storeSnapshot) store() *domain.Store {
	return domain.RehydrateStore(s.ID, s.OwnerID, domain.StoreDetails{
		Name:               s.Name,
		RegistrationNumber: s.RegistrationNumber,
		Address:            s.Address,
		Phone:              s.Phone,
		Email:              s.Email,
		Description:        s.Description,
	}, domain.StoreStatus(s.Status), domain.Tier(s.Tier), s.CommissionRate,
		s.Featured, s.PrioritySupport, s.Version, s.CreatedAt, s.UpdatedAt)
}

// StoreRepository caches FindByID lookups in Redis and delegates everything
// else to the wrapped repository. Lookups inside a transaction bypass the
// cache so that writers always see the committed version. Redis failures
// degrade to direct reads.
type StoreRepository struct {
	next    domain.StoreRepository
	client  redis.UniversalClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewStoreRepository wraps next with a Redis cache.
func NewStoreRepository(next domain.StoreRepository, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *StoreRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &StoreRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  logger.With("component", "store-cache"),
		metrics: metrics,
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Save persists the store and drops its cache entry, once now and again
// after the surrounding transaction commits. A read that races the commit
// can otherwise cache the old row until the TTL runs out.
func (r *StoreRepository) Save(ctx context.Context, store *domain.Store) error {
	if err := r.next.Save(ctx, store); err != nil {
		return err
	}
	id := store.ID()
	r.Invalidate(ctx, id)
	if _, inTx := database.TxInfoFromContext(ctx); inTx {
		database.AfterCommit(ctx, func(ctx context.Context) { r.Invalidate(ctx, id) })
	}
	return nil
}

// FindByID serves from Redis when possible.
func (r *StoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Store, error) {
	if _, inTx := database.TxInfoFromContext(ctx); inTx {
		return r.next.FindByID(ctx, id)
	}

	raw, err := r.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var snap storeSnapshot
		if err := json.Unmarshal(raw, &snap); err == nil {
			r.metrics.Counter(observability.MetricStoreCacheHits, 1)
			return snap.store(), nil
		}
		r.logger.WarnContext(ctx, "discarding corrupt cache entry", "store_id", id)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.WarnContext(ctx, "store cache unavailable", "error", err)
	}
	r.metrics.Counter(observability.MetricStoreCacheMisses, 1)

	store, err := r.next.FindByID(ctx, id)
	if err != nil || store == nil {
		return store, err
	}
	r.put(ctx, store)
	return store, nil
}

func (r *StoreRepository) put(ctx context.Context, store *domain.Store) {
	raw, err := json.Marshal(snapshotOf(store))
	if err != nil {
		r.logger.WarnContext(ctx, "encode store for cache", "store_id", store.ID(), "error", err)
		return
	}
	if err := r.client.Set(ctx, key(store.ID()), raw, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "store cache write failed", "store_id", store.ID(), "error", err)
	}
}

// Invalidate removes a cached store.
func (r *StoreRepository) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		r.logger.WarnContext(ctx, "store cache invalidation failed", "store_id", id, "error", err)
	}
}

func (r *StoreRepository) FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.Store, error) {
	return r.next.FindByRegistrationNumber(ctx, registrationNumber)
}

func (r *StoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Store, error) {
	return r.next.FindByOwner(ctx, ownerID)
}

func (r *StoreRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Store, error) {
	return r.next.Search(ctx, query, limit)
}

var _ domain.StoreRepository = (*StoreRepository)(nil)

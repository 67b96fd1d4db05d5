package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper claims notice keys so that each notice is sent once.
type Deduper interface {
	// Claim reports whether key was free and is now held for ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees a claimed key so a later sweep can retry.
	Release(ctx context.Context, key string) error
}

// MemoryDeduper keeps claims in process. Claims are lost on restart.
type MemoryDeduper struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

// NewMemoryDeduper creates an empty MemoryDeduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{claims: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if until, ok := d.claims[key]; ok && now.Before(until) {
		return false, nil
	}
	d.claims[key] = now.Add(ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.claims, key)
	d.mu.Unlock()
	return nil
}

// RedisDeduper claims keys with SETNX so that several workers share one
// view. When Redis is unreachable it degrades to the in-memory fallback.
type RedisDeduper struct {
	client   redis.UniversalClient
	fallback *MemoryDeduper
	logger   *slog.Logger
}

// NewRedisDeduper creates a RedisDeduper.
func NewRedisDeduper(client redis.UniversalClient, logger *slog.Logger) *RedisDeduper {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisDeduper{client: client, fallback: NewMemoryDeduper(), logger: logger}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		d.logger.WarnContext(ctx, "redis claim failed, using in-memory dedupe", "key", key, "error", err)
		return d.fallback.Claim(ctx, key, ttl)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	_ = d.fallback.Release(ctx, key)
	return d.client.Del(ctx, key).Err()
}

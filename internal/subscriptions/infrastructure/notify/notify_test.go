package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

var (
	today = sharedDomain.MustParseDate("2024-01-15")
	clock = sharedDomain.FixedClockOn(today)
)

func expiring(end string) *domain.Subscription {
	return domain.RehydrateSubscription(uuid.New(), uuid.New(), uuid.New(), domain.StatusActive,
		sharedDomain.MustParseDate("2023-12-20"), sharedDomain.MustParseDate(end),
		3, true, decimal.RequireFromString("99.90"), nil, 2, clock.Now(), clock.Now())
}

func redisDeduper(t *testing.T) (*RedisDeduper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDeduper(client, nil), mr
}

func TestExpiryNotifier_PublishesOncePerPeriod(t *testing.T) {
	dedupe, mr := redisDeduper(t)
	publisher := &eventbus.RecordingPublisher{}
	metrics := observability.NewInMemoryMetrics()
	notifier := NewExpiryNotifier(publisher, dedupe, time.Hour, clock, nil, metrics)
	ctx := context.Background()

	subs := []*domain.Subscription{expiring("2024-01-19"), expiring("2024-01-22")}

	sent, err := notifier.NotifyExpiring(ctx, subs, today)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = notifier.NotifyExpiring(ctx, subs, today)
	require.NoError(t, err)
	assert.Equal(t, 0, sent, "already announced")

	msgs := publisher.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoutingKeySubscriptionExpiringSoon, msgs[0].RoutingKey)
	assert.True(t, mr.Exists(NoticeKey(subs[0])))
	assert.Equal(t, time.Hour, mr.TTL(NoticeKey(subs[0])))
	assert.Equal(t, int64(2), metrics.GetCounter(observability.MetricExpiryNoticesSent))

	var notice domain.SubscriptionExpiringSoon
	event := &eventbus.ConsumedEvent{Payload: msgs[0].Payload}
	require.NoError(t, event.Decode(&notice))
	assert.Equal(t, subs[0].ID(), notice.SubscriptionID)
	assert.Equal(t, 4, notice.DaysLeft)
	assert.Equal(t, "2024-01-19", notice.EndDate.String())

	t.Run("claim expires with ttl", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)
		sent, err := notifier.NotifyExpiring(ctx, subs[:1], today)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})
}

func TestExpiryNotifier_PublishFailureReleasesClaim(t *testing.T) {
	dedupe, mr := redisDeduper(t)
	publisher := &eventbus.RecordingPublisher{Err: errors.New("broker down")}
	notifier := NewExpiryNotifier(publisher, dedupe, time.Hour, clock, nil, nil)
	ctx := context.Background()
	sub := expiring("2024-01-19")

	sent, err := notifier.NotifyExpiring(ctx, []*domain.Subscription{sub}, today)
	assert.Error(t, err)
	assert.Equal(t, 0, sent)
	assert.False(t, mr.Exists(NoticeKey(sub)))

	publisher.Err = nil
	sent, err = notifier.NotifyExpiring(ctx, []*domain.Subscription{sub}, today)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestRedisDeduper_FallsBackToMemory(t *testing.T) {
	dedupe, mr := redisDeduper(t)
	ctx := context.Background()
	mr.Close()

	ok, err := dedupe.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dedupe.Claim(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDeduper(t *testing.T) {
	d := NewMemoryDeduper()
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _ := d.Claim(ctx, "a", time.Minute)
	assert.True(t, ok)
	ok, _ = d.Claim(ctx, "a", time.Minute)
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = d.Claim(ctx, "a", time.Minute)
	assert.True(t, ok)

	require.NoError(t, d.Release(ctx, "a"))
	ok, _ = d.Claim(ctx, "a", time.Minute)
	assert.True(t, ok)
}

func TestLogConsumer_HandlesNoticeFromInProcessBus(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(slog.New(slog.DiscardHandler))
	bus.RegisterConsumer(NewLogConsumer(slog.New(slog.DiscardHandler)))

	notifier := NewExpiryNotifier(bus, nil, 0, clock, nil, nil)
	sent, err := notifier.NotifyExpiring(context.Background(), []*domain.Subscription{expiring("2024-01-20")}, today)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

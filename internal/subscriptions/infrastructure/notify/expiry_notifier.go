// Package notify announces subscriptions that are about to expire.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

const keyPrefix = "supplifit:expiry-notice:"

// DefaultTTL keeps a claim past the end of the notice window.
const DefaultTTL = 8 * 24 * time.Hour

// ExpiryNotifier publishes a SubscriptionExpiringSoon notice at most once per
// subscription and end date. Notices bypass the outbox; a lost notice is
// re-sent by a later sweep only if its claim was released.
type ExpiryNotifier struct {
	publisher eventbus.Publisher
	dedupe    Deduper
	ttl       time.Duration
	clock     sharedDomain.Clock
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewExpiryNotifier creates an ExpiryNotifier. A nil deduper means an
// in-memory one; a non-positive ttl means DefaultTTL.
func NewExpiryNotifier(
	publisher eventbus.Publisher,
	dedupe Deduper,
	ttl time.Duration,
	clock sharedDomain.Clock,
	logger *slog.Logger,
	metrics observability.Metrics,
) *ExpiryNotifier {
	if dedupe == nil {
		dedupe = NewMemoryDeduper()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ExpiryNotifier{
		publisher: publisher,
		dedupe:    dedupe,
		ttl:       ttl,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// NoticeKey identifies one notice. A renewal produces a new subscription, so
// it is announced again when its own period runs out.
func NoticeKey(sub *domain.Subscription) string {
	return keyPrefix + sub.ID().String() + ":" + sub.EndDate().String()
}

// NotifyExpiring publishes a notice for each subscription not yet announced
// and returns how many were sent.
func (n *ExpiryNotifier) NotifyExpiring(ctx context.Context, subs []*domain.Subscription, today sharedDomain.Date) (int, error) {
	var (
		sent int
		errs []error
	)
	for _, sub := range subs {
		key := NoticeKey(sub)
		claimed, err := n.dedupe.Claim(ctx, key, n.ttl)
		if err != nil {
			errs = append(errs, fmt.Errorf("claim %s: %w", key, err))
			continue
		}
		if !claimed {
			continue
		}

		if err := n.publish(ctx, sub, today); err != nil {
			if relErr := n.dedupe.Release(ctx, key); relErr != nil {
				n.logger.WarnContext(ctx, "failed to release notice claim", "key", key, "error", relErr)
			}
			errs = append(errs, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		n.metrics.Counter(observability.MetricExpiryNoticesSent, int64(sent))
	}
	return sent, errors.Join(errs...)
}

func (n *ExpiryNotifier) publish(ctx context.Context, sub *domain.Subscription, today sharedDomain.Date) error {
	notice := domain.NewSubscriptionExpiringSoon(sub, today, n.clock.Now())
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("encode notice for %s: %w", sub.ID(), err)
	}
	if err := n.publisher.Publish(ctx, notice.RoutingKey(), payload); err != nil {
		return fmt.Errorf("publish notice for %s: %w", sub.ID(), err)
	}
	n.logger.DebugContext(ctx, "expiry notice published",
		"subscription_id", sub.ID(),
		"end_date", sub.EndDate().String(),
		"days_left", notice.DaysLeft,
	)
	return nil
}

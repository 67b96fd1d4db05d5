package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

// ExpiryNotifier announces subscriptions that are about to end.
type ExpiryNotifier interface {
	NotifyExpiring(ctx context.Context, subs []*domain.Subscription, today sharedDomain.Date) (int, error)
}

// ExpireDueCommand runs one expiry sweep.
type ExpireDueCommand struct {
	ActorID uuid.UUID
}

// ExpireDueResult reports a sweep.
type ExpireDueResult struct {
	Today        sharedDomain.Date
	Expired      []*domain.Subscription
	SoonToExpire []*domain.Subscription
	Notified     int
}

// ExpireDueHandler expires active subscriptions whose end date has passed and
// lists the ones ending within the notice window.
type ExpireDueHandler struct {
	subRepo    domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	windowDays int
	notifier   ExpiryNotifier
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewExpireDueHandler creates a new ExpireDueHandler. windowDays below one
// falls back to domain.DefaultNoticeWindowDays. notifier may be nil.
func NewExpireDueHandler(
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	windowDays int,
	notifier ExpiryNotifier,
	logger *slog.Logger,
	metrics observability.Metrics,
) *ExpireDueHandler {
	if windowDays < 1 {
		windowDays = domain.DefaultNoticeWindowDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ExpireDueHandler{
		subRepo:    subRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		windowDays: windowDays,
		notifier:   notifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// Handle executes the sweep. Running it again on the same day expires
// nothing further.
func (h *ExpireDueHandler) Handle(ctx context.Context, cmd ExpireDueCommand) (*ExpireDueResult, error) {
	today := h.clock.Today()

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*ExpireDueResult, error) {
		due, err := h.subRepo.FindActiveEndingBefore(txCtx, today)
		if err != nil {
			return nil, err
		}

		now := h.clock.Now()
		metadata := sharedApplication.NewEventMetadata(txCtx, cmd.ActorID)
		expired := make([]*domain.Subscription, 0, len(due))
		for _, sub := range due {
			if !sub.Expire(today, now) {
				continue
			}
			if err := h.subRepo.Save(txCtx, sub); err != nil {
				return nil, err
			}
			if err := outbox.Record(txCtx, h.outboxRepo, metadata, sub); err != nil {
				return nil, err
			}
			expired = append(expired, sub)
		}

		soon, err := h.subRepo.FindActiveEndingBetween(txCtx, today, today.AddDays(h.windowDays))
		if err != nil {
			return nil, err
		}
		return &ExpireDueResult{Today: today, Expired: expired, SoonToExpire: soon}, nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.Counter(observability.MetricExpirySweeps, 1)
	h.metrics.Counter(observability.MetricSubscriptionsExpired, int64(len(result.Expired)))

	if h.notifier != nil && len(result.SoonToExpire) > 0 {
		sent, err := h.notifier.NotifyExpiring(ctx, result.SoonToExpire, today)
		if err != nil {
			h.logger.Warn("expiry notices incomplete", "sent", sent, "error", err)
		}
		result.Notified = sent
	}

	h.logger.Info("expiry sweep finished",
		"today", today.String(),
		"expired", len(result.Expired),
		"soon_to_expire", len(result.SoonToExpire),
		"notified", result.Notified,
	)
	return result, nil
}

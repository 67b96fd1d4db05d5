package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

// RenewSubscriptionCommand starts the next period of a subscription.
type RenewSubscriptionCommand struct {
	SubscriptionID uuid.UUID
	ActorID        uuid.UUID
}

// RenewSubscriptionHandler handles RenewSubscriptionCommand.
type RenewSubscriptionHandler struct {
	planRepo   domain.PlanRepository
	subRepo    domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	metrics    observability.Metrics
}

// NewRenewSubscriptionHandler creates a new RenewSubscriptionHandler.
func NewRenewSubscriptionHandler(
	planRepo domain.PlanRepository,
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *RenewSubscriptionHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &RenewSubscriptionHandler{
		planRepo:   planRepo,
		subRepo:    subRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		metrics:    metrics,
	}
}

// Handle creates and returns the successor subscription. The renewed
// subscription itself is not modified.
func (h *RenewSubscriptionHandler) Handle(ctx context.Context, cmd RenewSubscriptionCommand) (*domain.Subscription, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Subscription, error) {
		sub, err := h.subRepo.FindByID(txCtx, cmd.SubscriptionID)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, domain.ErrSubscriptionNotFound
		}
		if !sub.RenewalEnabled() {
			return nil, domain.ErrRenewalDisabled
		}

		successor, err := h.subRepo.FindSuccessor(txCtx, sub.ID())
		if err != nil {
			return nil, err
		}
		if successor != nil {
			return nil, domain.ErrAlreadyRenewed
		}

		plan, err := h.planRepo.FindByID(txCtx, sub.PlanID())
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, domain.ErrPlanNotFound
		}

		next, err := sub.Renew(plan, h.clock.Today(), h.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := h.subRepo.Save(txCtx, next); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), next); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricSubscriptionsRenewed, 1)
		return next, nil
	})
}

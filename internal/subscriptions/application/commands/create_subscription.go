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

// CreateSubscriptionCommand opens a pending subscription.
type CreateSubscriptionCommand struct {
	UserID uuid.UUID
	PlanID uuid.UUID

	// StartDate defaults to today.
	StartDate *sharedDomain.Date
}

// CreateSubscriptionHandler handles CreateSubscriptionCommand.
type CreateSubscriptionHandler struct {
	planRepo   domain.PlanRepository
	subRepo    domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	metrics    observability.Metrics
}

// NewCreateSubscriptionHandler creates a new CreateSubscriptionHandler.
func NewCreateSubscriptionHandler(
	planRepo domain.PlanRepository,
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *CreateSubscriptionHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateSubscriptionHandler{
		planRepo:   planRepo,
		subRepo:    subRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		metrics:    metrics,
	}
}

// Handle executes the command.
func (h *CreateSubscriptionHandler) Handle(ctx context.Context, cmd CreateSubscriptionCommand) (*domain.Subscription, error) {
	start := h.clock.Today()
	if cmd.StartDate != nil && !cmd.StartDate.IsZero() {
		start = *cmd.StartDate
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Subscription, error) {
		plan, err := h.planRepo.FindByID(txCtx, cmd.PlanID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, domain.ErrPlanNotFound
		}

		sub, err := domain.NewSubscription(cmd.UserID, plan, start, h.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := h.subRepo.Save(txCtx, sub); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.UserID), sub); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricSubscriptionsCreated, 1, observability.T("plan_type", string(plan.PlanType())))
		return sub, nil
	})
}

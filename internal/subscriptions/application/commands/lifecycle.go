package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
	"github.com/supplifit/supplifit/pkg/observability"
)

// ActivateSubscriptionCommand moves a pending subscription to active.
type ActivateSubscriptionCommand struct {
	SubscriptionID uuid.UUID
	ActorID        uuid.UUID
}

// CancelSubscriptionCommand cancels a subscription and turns renewal off.
type CancelSubscriptionCommand struct {
	SubscriptionID uuid.UUID
	ActorID        uuid.UUID
}

// ConsumeUnitCommand uses one unit of an active subscription.
type ConsumeUnitCommand struct {
	SubscriptionID uuid.UUID
	ActorID        uuid.UUID
}

// transitioner loads a subscription, applies one state change and persists
// it with its events. Transitions that raise no event are not written.
type transitioner struct {
	subRepo    domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

func (t transitioner) apply(
	ctx context.Context,
	id, actorID uuid.UUID,
	change func(sub *domain.Subscription, now time.Time) error,
) (*domain.Subscription, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, t.uow, func(txCtx context.Context) (*domain.Subscription, error) {
		sub, err := t.subRepo.FindByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, domain.ErrSubscriptionNotFound
		}

		if err := change(sub, t.clock.Now()); err != nil {
			return nil, err
		}
		if len(sub.DomainEvents()) == 0 {
			return sub, nil
		}

		if err := t.subRepo.Save(txCtx, sub); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, t.outboxRepo, sharedApplication.NewEventMetadata(txCtx, actorID), sub); err != nil {
			return nil, err
		}
		return sub, nil
	})
}

// ActivateSubscriptionHandler handles ActivateSubscriptionCommand.
type ActivateSubscriptionHandler struct {
	transitioner
}

// NewActivateSubscriptionHandler creates a new ActivateSubscriptionHandler.
func NewActivateSubscriptionHandler(
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *ActivateSubscriptionHandler {
	return &ActivateSubscriptionHandler{transitioner{subRepo, outboxRepo, uow, clock}}
}

// Handle executes the command.
func (h *ActivateSubscriptionHandler) Handle(ctx context.Context, cmd ActivateSubscriptionCommand) (*domain.Subscription, error) {
	return h.apply(ctx, cmd.SubscriptionID, cmd.ActorID, (*domain.Subscription).Activate)
}

// CancelSubscriptionHandler handles CancelSubscriptionCommand.
type CancelSubscriptionHandler struct {
	transitioner
	metrics observability.Metrics
}

// NewCancelSubscriptionHandler creates a new CancelSubscriptionHandler.
func NewCancelSubscriptionHandler(
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *CancelSubscriptionHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CancelSubscriptionHandler{
		transitioner: transitioner{subRepo, outboxRepo, uow, clock},
		metrics:      metrics,
	}
}

// Handle executes the command. Cancelling a cancelled subscription returns
// it unchanged.
func (h *CancelSubscriptionHandler) Handle(ctx context.Context, cmd CancelSubscriptionCommand) (*domain.Subscription, error) {
	changed := false
	sub, err := h.apply(ctx, cmd.SubscriptionID, cmd.ActorID, func(sub *domain.Subscription, now time.Time) error {
		wasCancelled := sub.Status() == domain.StatusCancelled
		if err := sub.Cancel(now); err != nil {
			return err
		}
		changed = !wasCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		h.metrics.Counter(observability.MetricSubscriptionsCancelled, 1)
	}
	return sub, nil
}

// ConsumeUnitHandler handles ConsumeUnitCommand.
type ConsumeUnitHandler struct {
	transitioner
	metrics observability.Metrics
}

// NewConsumeUnitHandler creates a new ConsumeUnitHandler.
func NewConsumeUnitHandler(
	subRepo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *ConsumeUnitHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &ConsumeUnitHandler{
		transitioner: transitioner{subRepo, outboxRepo, uow, clock},
		metrics:      metrics,
	}
}

// Handle executes the command.
func (h *ConsumeUnitHandler) Handle(ctx context.Context, cmd ConsumeUnitCommand) (*domain.Subscription, error) {
	sub, err := h.apply(ctx, cmd.SubscriptionID, cmd.ActorID, (*domain.Subscription).ConsumeUnit)
	if err != nil {
		return nil, err
	}
	h.metrics.Counter(observability.MetricUnitsConsumed, 1)
	return sub, nil
}

package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// UpdatePlanCommand edits catalog fields of a plan. Nil fields are left
// unchanged; a non-nil empty Features clears the list.
type UpdatePlanCommand struct {
	PlanID         uuid.UUID
	Name           *string
	PlanType       *string
	Description    *string
	Price          *decimal.Decimal
	UnitsPerPeriod *int
	Features       *[]string
	ActorID        uuid.UUID
}

// UpdatePlanHandler handles UpdatePlanCommand.
type UpdatePlanHandler struct {
	planRepo   domain.PlanRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewUpdatePlanHandler creates a new UpdatePlanHandler.
func NewUpdatePlanHandler(
	planRepo domain.PlanRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *UpdatePlanHandler {
	return &UpdatePlanHandler{
		planRepo:   planRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the command and returns the plan as saved.
func (h *UpdatePlanHandler) Handle(ctx context.Context, cmd UpdatePlanCommand) (*domain.Plan, error) {
	update := domain.PlanUpdate{
		Name:           cmd.Name,
		Description:    cmd.Description,
		Price:          cmd.Price,
		UnitsPerPeriod: cmd.UnitsPerPeriod,
		Features:       cmd.Features,
	}
	if cmd.PlanType != nil {
		planType, err := domain.ParsePlanType(*cmd.PlanType)
		if err != nil {
			return nil, err
		}
		update.PlanType = &planType
	}

	return h.apply(ctx, cmd.PlanID, cmd.ActorID, func(plan *domain.Plan) error {
		return plan.Update(update, h.clock.Now())
	})
}

func (h *UpdatePlanHandler) apply(ctx context.Context, planID, actorID uuid.UUID, change func(*domain.Plan) error) (*domain.Plan, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Plan, error) {
		plan, err := h.planRepo.FindByID(txCtx, planID)
		if err != nil {
			return nil, err
		}
		if plan == nil {
			return nil, domain.ErrPlanNotFound
		}

		if err := change(plan); err != nil {
			return nil, err
		}
		if len(plan.DomainEvents()) == 0 {
			return plan, nil
		}

		if err := h.planRepo.Save(txCtx, plan); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, actorID), plan); err != nil {
			return nil, err
		}
		return plan, nil
	})
}

// SetPlanActiveCommand opens or closes a plan to new subscriptions.
type SetPlanActiveCommand struct {
	PlanID  uuid.UUID
	Active  bool
	ActorID uuid.UUID
}

// SetPlanActiveHandler handles SetPlanActiveCommand.
type SetPlanActiveHandler struct {
	updates *UpdatePlanHandler
}

// NewSetPlanActiveHandler creates a new SetPlanActiveHandler.
func NewSetPlanActiveHandler(
	planRepo domain.PlanRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *SetPlanActiveHandler {
	return &SetPlanActiveHandler{updates: NewUpdatePlanHandler(planRepo, outboxRepo, uow, clock)}
}

// Handle executes the command and returns the plan as saved.
func (h *SetPlanActiveHandler) Handle(ctx context.Context, cmd SetPlanActiveCommand) (*domain.Plan, error) {
	return h.updates.apply(ctx, cmd.PlanID, cmd.ActorID, func(plan *domain.Plan) error {
		plan.SetActive(cmd.Active, h.updates.clock.Now())
		return nil
	})
}

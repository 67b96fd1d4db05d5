// Package commands holds the plan and subscription write handlers.
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

// CreatePlanCommand adds a plan to the catalog.
type CreatePlanCommand struct {
	Name           string
	PlanType       string
	Description    string
	Price          decimal.Decimal
	UnitsPerPeriod int
	Features       []string
	ActorID        uuid.UUID
}

// CreatePlanResult contains the new plan's ID.
type CreatePlanResult struct {
	PlanID uuid.UUID
}

// CreatePlanHandler handles CreatePlanCommand.
type CreatePlanHandler struct {
	planRepo   domain.PlanRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewCreatePlanHandler creates a new CreatePlanHandler.
func NewCreatePlanHandler(
	planRepo domain.PlanRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *CreatePlanHandler {
	return &CreatePlanHandler{
		planRepo:   planRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the command.
func (h *CreatePlanHandler) Handle(ctx context.Context, cmd CreatePlanCommand) (*CreatePlanResult, error) {
	planType, err := domain.ParsePlanType(cmd.PlanType)
	if err != nil {
		return nil, err
	}
	plan, err := domain.NewPlan(cmd.Name, planType, cmd.Description, cmd.Price, cmd.UnitsPerPeriod, cmd.Features, h.clock.Now())
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreatePlanResult, error) {
		if err := h.planRepo.Save(txCtx, plan); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), plan); err != nil {
			return nil, err
		}
		return &CreatePlanResult{PlanID: plan.ID()}, nil
	})
}

package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/pkg/observability"
)

// CreateSupplementCommand lists a new supplement in an existing category.
type CreateSupplementCommand struct {
	CategoryID        uuid.UUID
	Name              string
	Description       string
	Brand             string
	Type              string
	ServingSize       string
	Ingredients       string
	Benefits          string
	UsageInstructions string
	Price             decimal.Decimal
	ActorID           uuid.UUID
}

// CreateSupplementHandler handles CreateSupplementCommand.
type CreateSupplementHandler struct {
	categoryRepo   domain.CategoryRepository
	supplementRepo domain.SupplementRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	clock          sharedDomain.Clock
	metrics        observability.Metrics
}

// NewCreateSupplementHandler creates a new CreateSupplementHandler.
func NewCreateSupplementHandler(
	categoryRepo domain.CategoryRepository,
	supplementRepo domain.SupplementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *CreateSupplementHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateSupplementHandler{
		categoryRepo:   categoryRepo,
		supplementRepo: supplementRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
		clock:          clock,
		metrics:        metrics,
	}
}

// Handle executes the command and returns the new supplement.
func (h *CreateSupplementHandler) Handle(ctx context.Context, cmd CreateSupplementCommand) (*domain.Supplement, error) {
	supplementType, err := domain.ParseSupplementType(cmd.Type)
	if err != nil {
		return nil, err
	}
	supplement, err := domain.NewSupplement(cmd.CategoryID, domain.SupplementDetails{
		Name:              cmd.Name,
		Description:       cmd.Description,
		Brand:             cmd.Brand,
		Type:              supplementType,
		ServingSize:       cmd.ServingSize,
		Ingredients:       cmd.Ingredients,
		Benefits:          cmd.Benefits,
		UsageInstructions: cmd.UsageInstructions,
	}, cmd.Price, h.clock.Now())
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Supplement, error) {
		if err := requireCategory(txCtx, h.categoryRepo, cmd.CategoryID); err != nil {
			return nil, err
		}
		if err := h.supplementRepo.Save(txCtx, supplement); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), supplement); err != nil {
			return nil, err
		}
		h.metrics.Counter(observability.MetricSupplementsCreated, 1, observability.T("type", string(supplementType)))
		return supplement, nil
	})
}

// UpdateSupplementCommand edits a supplement. Nil fields are left unchanged.
type UpdateSupplementCommand struct {
	SupplementID      uuid.UUID
	CategoryID        *uuid.UUID
	Name              *string
	Description       *string
	Brand             *string
	Type              *string
	ServingSize       *string
	Ingredients       *string
	Benefits          *string
	UsageInstructions *string
	Price             *decimal.Decimal
	Available         *bool
	ActorID           uuid.UUID
}

// UpdateSupplementHandler handles UpdateSupplementCommand.
type UpdateSupplementHandler struct {
	categoryRepo   domain.CategoryRepository
	supplementRepo domain.SupplementRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	clock          sharedDomain.Clock
}

// NewUpdateSupplementHandler creates a new UpdateSupplementHandler.
func NewUpdateSupplementHandler(
	categoryRepo domain.CategoryRepository,
	supplementRepo domain.SupplementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *UpdateSupplementHandler {
	return &UpdateSupplementHandler{
		categoryRepo:   categoryRepo,
		supplementRepo: supplementRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
		clock:          clock,
	}
}

// Handle executes the command and returns the supplement as saved.
func (h *UpdateSupplementHandler) Handle(ctx context.Context, cmd UpdateSupplementCommand) (*domain.Supplement, error) {
	update := domain.SupplementUpdate{
		CategoryID:        cmd.CategoryID,
		Name:              cmd.Name,
		Description:       cmd.Description,
		Brand:             cmd.Brand,
		ServingSize:       cmd.ServingSize,
		Ingredients:       cmd.Ingredients,
		Benefits:          cmd.Benefits,
		UsageInstructions: cmd.UsageInstructions,
		Price:             cmd.Price,
		Available:         cmd.Available,
	}
	if cmd.Type != nil {
		supplementType, err := domain.ParseSupplementType(*cmd.Type)
		if err != nil {
			return nil, err
		}
		update.Type = &supplementType
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Supplement, error) {
		supplement, err := h.supplementRepo.FindByID(txCtx, cmd.SupplementID)
		if err != nil {
			return nil, err
		}
		if supplement == nil {
			return nil, domain.ErrSupplementNotFound
		}
		if id := cmd.CategoryID; id != nil && *id != uuid.Nil && *id != supplement.CategoryID() {
			if err := requireCategory(txCtx, h.categoryRepo, *id); err != nil {
				return nil, err
			}
		}

		if err := supplement.Update(update, h.clock.Now()); err != nil {
			return nil, err
		}
		if len(supplement.DomainEvents()) == 0 {
			return supplement, nil
		}

		if err := h.supplementRepo.Save(txCtx, supplement); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), supplement); err != nil {
			return nil, err
		}
		return supplement, nil
	})
}

// DeleteSupplementCommand removes a supplement from the catalog.
type DeleteSupplementCommand struct {
	SupplementID uuid.UUID
	ActorID      uuid.UUID
}

// DeleteSupplementHandler handles DeleteSupplementCommand.
type DeleteSupplementHandler struct {
	supplementRepo domain.SupplementRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	clock          sharedDomain.Clock
}

// NewDeleteSupplementHandler creates a new DeleteSupplementHandler.
func NewDeleteSupplementHandler(
	supplementRepo domain.SupplementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *DeleteSupplementHandler {
	return &DeleteSupplementHandler{
		supplementRepo: supplementRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
		clock:          clock,
	}
}

// Handle executes the command.
func (h *DeleteSupplementHandler) Handle(ctx context.Context, cmd DeleteSupplementCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		supplement, err := h.supplementRepo.FindByID(txCtx, cmd.SupplementID)
		if err != nil {
			return err
		}
		if supplement == nil {
			return domain.ErrSupplementNotFound
		}
		supplement.MarkDeleted(h.clock.Now())
		if err := h.supplementRepo.Delete(txCtx, supplement.ID()); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), supplement)
	})
}

func requireCategory(ctx context.Context, repo domain.CategoryRepository, id uuid.UUID) error {
	category, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}
	return nil
}

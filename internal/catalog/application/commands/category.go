// Package commands holds the catalog write handlers.
package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
)

// CreateCategoryCommand adds a supplement category.
type CreateCategoryCommand struct {
	Name        string
	Description string
	ActorID     uuid.UUID
}

// CreateCategoryHandler handles CreateCategoryCommand.
type CreateCategoryHandler struct {
	categoryRepo domain.CategoryRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	clock        sharedDomain.Clock
}

// NewCreateCategoryHandler creates a new CreateCategoryHandler.
func NewCreateCategoryHandler(
	categoryRepo domain.CategoryRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		clock:        clock,
	}
}

// Handle executes the command and returns the new category.
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	category, err := domain.NewCategory(cmd.Name, cmd.Description, h.clock.Now())
	if err != nil {
		return nil, err
	}
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Category, error) {
		if err := h.categoryRepo.Save(txCtx, category); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), category); err != nil {
			return nil, err
		}
		return category, nil
	})
}

// DeleteCategoryCommand removes an empty category.
type DeleteCategoryCommand struct {
	CategoryID uuid.UUID
	ActorID    uuid.UUID
}

// DeleteCategoryHandler handles DeleteCategoryCommand.
type DeleteCategoryHandler struct {
	categoryRepo   domain.CategoryRepository
	supplementRepo domain.SupplementRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
	clock          sharedDomain.Clock
}

// NewDeleteCategoryHandler creates a new DeleteCategoryHandler.
func NewDeleteCategoryHandler(
	categoryRepo domain.CategoryRepository,
	supplementRepo domain.SupplementRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		categoryRepo:   categoryRepo,
		supplementRepo: supplementRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
		clock:          clock,
	}
}

// Handle deletes the category. Categories that still list supplements are
// kept and ErrCategoryInUse is returned.
func (h *DeleteCategoryHandler) Handle(ctx context.Context, cmd DeleteCategoryCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		category, err := h.categoryRepo.FindByID(txCtx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrCategoryNotFound
		}
		n, err := h.supplementRepo.CountByCategory(txCtx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d listed", domain.ErrCategoryInUse, n)
		}

		category.MarkDeleted(h.clock.Now())
		if err := h.categoryRepo.Delete(txCtx, category.ID()); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), category)
	})
}

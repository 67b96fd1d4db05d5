package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/partners/domain"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
)

// ChangeStoreStatusCommand moves a store to a new review status.
type ChangeStoreStatusCommand struct {
	StoreID uuid.UUID
	Status  string
	ActorID uuid.UUID
}

// ChangeStoreStatusHandler handles ChangeStoreStatusCommand.
type ChangeStoreStatusHandler struct {
	storeRepo  domain.StoreRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewChangeStoreStatusHandler creates a new ChangeStoreStatusHandler.
func NewChangeStoreStatusHandler(
	storeRepo domain.StoreRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *ChangeStoreStatusHandler {
	return &ChangeStoreStatusHandler{
		storeRepo:  storeRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the command.
func (h *ChangeStoreStatusHandler) Handle(ctx context.Context, cmd ChangeStoreStatusCommand) error {
	status, err := domain.ParseStoreStatus(cmd.Status)
	if err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		store, err := h.storeRepo.FindByID(txCtx, cmd.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.ErrStoreNotFound
		}

		if err := store.ChangeStatus(status, h.clock.Now()); err != nil {
			return err
		}
		if len(store.DomainEvents()) == 0 {
			return nil
		}

		if err := h.storeRepo.Save(txCtx, store); err != nil {
			return err
		}
		return outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), store)
	})
}

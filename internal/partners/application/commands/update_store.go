package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
)

// UpdateStoreCommand edits a store's contact details or commission rate.
// Nil fields are left unchanged.
type UpdateStoreCommand struct {
	StoreID        uuid.UUID
	Name           *string
	Address        *string
	Phone          *string
	Email          *string
	Description    *string
	CommissionRate *decimal.Decimal
	ActorID        uuid.UUID
}

// UpdateStoreHandler handles UpdateStoreCommand.
type UpdateStoreHandler struct {
	storeRepo  domain.StoreRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
}

// NewUpdateStoreHandler creates a new UpdateStoreHandler.
func NewUpdateStoreHandler(
	storeRepo domain.StoreRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
) *UpdateStoreHandler {
	return &UpdateStoreHandler{
		storeRepo:  storeRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the command and returns the store as saved.
func (h *UpdateStoreHandler) Handle(ctx context.Context, cmd UpdateStoreCommand) (*domain.Store, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.Store, error) {
		store, err := h.storeRepo.FindByID(txCtx, cmd.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, domain.ErrStoreNotFound
		}

		if err := store.Update(domain.StoreUpdate{
			Name:           cmd.Name,
			Address:        cmd.Address,
			Phone:          cmd.Phone,
			Email:          cmd.Email,
			Description:    cmd.Description,
			CommissionRate: cmd.CommissionRate,
		}, h.clock.Now()); err != nil {
			return nil, err
		}
		if len(store.DomainEvents()) == 0 {
			return store, nil
		}

		if err := h.storeRepo.Save(txCtx, store); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.ActorID), store); err != nil {
			return nil, err
		}
		return store, nil
	})
}

// Package commands holds the partner store write handlers.
package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplifit/supplifit/internal/partners/domain"
	sharedApplication "github.com/supplifit/supplifit/internal/shared/application"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/outbox"
	"github.com/supplifit/supplifit/pkg/observability"
)

// CreateStoreCommand registers a new partner store.
type CreateStoreCommand struct {
	OwnerID            uuid.UUID
	Tier               string
	Name               string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string
	Description        string

	// CommissionRate overrides the tier preset when set.
	CommissionRate *decimal.Decimal
}

// CreateStoreResult contains the new store's ID.
type CreateStoreResult struct {
	StoreID uuid.UUID
}

// CreateStoreHandler handles CreateStoreCommand.
type CreateStoreHandler struct {
	storeRepo  domain.StoreRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      sharedDomain.Clock
	metrics    observability.Metrics
}

// NewCreateStoreHandler creates a new CreateStoreHandler.
func NewCreateStoreHandler(
	storeRepo domain.StoreRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *CreateStoreHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CreateStoreHandler{
		storeRepo:  storeRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
		metrics:    metrics,
	}
}

// Handle executes the command.
func (h *CreateStoreHandler) Handle(ctx context.Context, cmd CreateStoreCommand) (*CreateStoreResult, error) {
	tier, err := domain.ParseTier(cmd.Tier)
	if err != nil {
		return nil, err
	}

	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateStoreResult, error) {
		existing, err := h.storeRepo.FindByRegistrationNumber(txCtx, cmd.RegistrationNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrRegistrationInUse
		}

		store, err := domain.NewStore(cmd.OwnerID, tier, domain.StoreDetails{
			Name:               cmd.Name,
			RegistrationNumber: cmd.RegistrationNumber,
			Address:            cmd.Address,
			Phone:              cmd.Phone,
			Email:              cmd.Email,
			Description:        cmd.Description,
		}, cmd.CommissionRate, h.clock.Now())
		if err != nil {
			return nil, err
		}

		if err := h.storeRepo.Save(txCtx, store); err != nil {
			return nil, err
		}
		if err := outbox.Record(txCtx, h.outboxRepo, sharedApplication.NewEventMetadata(txCtx, cmd.OwnerID), store); err != nil {
			return nil, err
		}

		h.metrics.Counter(observability.MetricStoresCreated, 1, observability.T("tier", string(tier)))
		return &CreateStoreResult{StoreID: store.ID()}, nil
	})
}

package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

const aggregateType = "PartnerStore"

// Routing keys for store events.
const (
	RoutingKeyStoreCreated       = "partners.store.created"
	RoutingKeyStoreStatusChanged = "partners.store.status_changed"
	RoutingKeyStoreUpdated       = "partners.store.updated"
)

// StoreCreated is emitted when a partner store is registered.
type StoreCreated struct {
	sharedDomain.BaseEvent
	StoreID        uuid.UUID `json:"store_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Tier           string    `json:"tier"`
	CommissionRate string    `json:"commission_rate"`
}

// NewStoreCreated creates a StoreCreated event.
func NewStoreCreated(s *Store, at time.Time) *StoreCreated {
	return &StoreCreated{
		BaseEvent:      sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingKeyStoreCreated, at),
		StoreID:        s.ID(),
		OwnerID:        s.OwnerID(),
		Name:           s.Name(),
		Tier:           string(s.Tier()),
		CommissionRate: s.CommissionRate().String(),
	}
}

// StoreStatusChanged is emitted when a store moves between review states.
type StoreStatusChanged struct {
	sharedDomain.BaseEvent
	StoreID uuid.UUID `json:"store_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
}

// NewStoreStatusChanged creates a StoreStatusChanged event.
func NewStoreStatusChanged(s *Store, from StoreStatus, at time.Time) *StoreStatusChanged {
	return &StoreStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingKeyStoreStatusChanged, at),
		StoreID:   s.ID(),
		From:      string(from),
		To:        string(s.Status()),
	}
}

// StoreUpdated is emitted when a store's details or commission rate change.
type StoreUpdated struct {
	sharedDomain.BaseEvent
	StoreID        uuid.UUID `json:"store_id"`
	Fields         []string  `json:"fields"`
	Name           string    `json:"name"`
	CommissionRate string    `json:"commission_rate"`
}

// NewStoreUpdated creates a StoreUpdated event.
func NewStoreUpdated(s *Store, fields []string, at time.Time) *StoreUpdated {
	return &StoreUpdated{
		BaseEvent:      sharedDomain.NewBaseEvent(s.ID(), aggregateType, RoutingKeyStoreUpdated, at),
		StoreID:        s.ID(),
		Fields:         fields,
		Name:           s.Name(),
		CommissionRate: s.CommissionRate().String(),
	}
}

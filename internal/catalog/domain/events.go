package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

const (
	categoryAggregate   = "SupplementCategory"
	supplementAggregate = "Supplement"
)

// Routing keys for catalog events.
const (
	RoutingKeyCategoryCreated       = "catalog.category.created"
	RoutingKeyCategoryDeleted       = "catalog.category.deleted"
	RoutingKeySupplementCreated     = "catalog.supplement.created"
	RoutingKeySupplementUpdated     = "catalog.supplement.updated"
	RoutingKeySupplementAvailable   = "catalog.supplement.available"
	RoutingKeySupplementUnavailable = "catalog.supplement.unavailable"
	RoutingKeySupplementDeleted     = "catalog.supplement.deleted"
)

// CategoryCreated is emitted when a category is added.
type CategoryCreated struct {
	sharedDomain.BaseEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// NewCategoryCreated creates a CategoryCreated event.
func NewCategoryCreated(c *Category, at time.Time) *CategoryCreated {
	return &CategoryCreated{
		BaseEvent:  sharedDomain.NewBaseEvent(c.ID(), categoryAggregate, RoutingKeyCategoryCreated, at),
		CategoryID: c.ID(),
		Name:       c.Name(),
	}
}

// CategoryDeleted is emitted when an empty category is removed.
type CategoryDeleted struct {
	sharedDomain.BaseEvent
	CategoryID uuid.UUID `json:"category_id"`
}

// NewCategoryDeleted creates a CategoryDeleted event.
func NewCategoryDeleted(c *Category, at time.Time) *CategoryDeleted {
	return &CategoryDeleted{
		BaseEvent:  sharedDomain.NewBaseEvent(c.ID(), categoryAggregate, RoutingKeyCategoryDeleted, at),
		CategoryID: c.ID(),
	}
}

// SupplementCreated is emitted when a supplement is listed.
type SupplementCreated struct {
	sharedDomain.BaseEvent
	SupplementID uuid.UUID `json:"supplement_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand"`
	Type         string    `json:"type"`
	Price        string    `json:"price"`
}

// NewSupplementCreated creates a SupplementCreated event.
func NewSupplementCreated(s *Supplement, at time.Time) *SupplementCreated {
	return &SupplementCreated{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), supplementAggregate, RoutingKeySupplementCreated, at),
		SupplementID: s.ID(),
		CategoryID:   s.CategoryID(),
		Name:         s.Name(),
		Brand:        s.Brand(),
		Type:         string(s.Type()),
		Price:        s.Price().String(),
	}
}

// SupplementUpdated is emitted when listing fields change.
type SupplementUpdated struct {
	sharedDomain.BaseEvent
	SupplementID uuid.UUID `json:"supplement_id"`
	Fields       []string  `json:"fields"`
	Price        string    `json:"price"`
}

// NewSupplementUpdated creates a SupplementUpdated event.
func NewSupplementUpdated(s *Supplement, fields []string, at time.Time) *SupplementUpdated {
	return &SupplementUpdated{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), supplementAggregate, RoutingKeySupplementUpdated, at),
		SupplementID: s.ID(),
		Fields:       fields,
		Price:        s.Price().String(),
	}
}

// SupplementAvailabilityChanged is emitted when a supplement goes in or out
// of stock. The routing key tells which.
type SupplementAvailabilityChanged struct {
	sharedDomain.BaseEvent
	SupplementID uuid.UUID `json:"supplement_id"`
	Available    bool      `json:"available"`
}

// NewSupplementAvailabilityChanged creates a SupplementAvailabilityChanged event.
func NewSupplementAvailabilityChanged(s *Supplement, at time.Time) *SupplementAvailabilityChanged {
	key := RoutingKeySupplementUnavailable
	if s.Available() {
		key = RoutingKeySupplementAvailable
	}
	return &SupplementAvailabilityChanged{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), supplementAggregate, key, at),
		SupplementID: s.ID(),
		Available:    s.Available(),
	}
}

// SupplementDeleted is emitted when a supplement is removed from the catalog.
type SupplementDeleted struct {
	sharedDomain.BaseEvent
	SupplementID uuid.UUID `json:"supplement_id"`
}

// NewSupplementDeleted creates a SupplementDeleted event.
func NewSupplementDeleted(s *Supplement, at time.Time) *SupplementDeleted {
	return &SupplementDeleted{
		BaseEvent:    sharedDomain.NewBaseEvent(s.ID(), supplementAggregate, RoutingKeySupplementDeleted, at),
		SupplementID: s.ID(),
	}
}

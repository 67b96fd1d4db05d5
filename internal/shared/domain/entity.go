package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity represents a domain entity with identity.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// BaseEntity carries identity and audit timestamps.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewBaseEntity creates an entity with a generated ID stamped at the given instant.
func NewBaseEntity(now time.Time) BaseEntity {
	now = now.UTC()
	return BaseEntity{
		id:        uuid.New(),
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id uuid.UUID, createdAt, updatedAt time.Time) BaseEntity {
	return BaseEntity{
		id:        id,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }
func (e BaseEntity) UpdatedAt() time.Time { return e.updatedAt }

// Touch moves updatedAt forward to at.
func (e *BaseEntity) Touch(at time.Time) {
	at = at.UTC()
	if at.After(e.updatedAt) {
		e.updatedAt = at
	}
}

// SameIdentity reports whether two entities share an ID.
func SameIdentity(a, b Entity) bool {
	if a == nil || b == nil {
		return false
	}
	return a.ID() == b.ID()
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

const maxCategoryName = 100

// Category groups supplements, for example protein or pre-workout.
type Category struct {
	sharedDomain.BaseAggregateRoot
	name        string
	description string
}

// NewCategory creates a category.
func NewCategory(name, description string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	if len([]rune(name)) > maxCategoryName {
		return nil, fmt.Errorf("%w: category name exceeds %d characters", ErrFieldTooLong, maxCategoryName)
	}
	c := &Category{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		name:              name,
		description:       strings.TrimSpace(description),
	}
	c.AddDomainEvent(NewCategoryCreated(c, now))
	return c, nil
}

// RehydrateCategory recreates a category from persisted state.
func RehydrateCategory(id uuid.UUID, name, description string, version int, createdAt, updatedAt time.Time) *Category {
	return &Category{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		name:        name,
		description: description,
	}
}

func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }

// MarkDeleted records the deletion. The repository removes the row.
func (c *Category) MarkDeleted(now time.Time) {
	c.AddDomainEvent(NewCategoryDeleted(c, now))
}

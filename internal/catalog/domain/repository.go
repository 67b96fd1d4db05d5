package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Ordering is a sort key for supplement listings. A leading "-" sorts
// descending.
type Ordering string

const (
	OrderByName      Ordering = "name"
	OrderByPrice     Ordering = "price"
	OrderByCreatedAt Ordering = "created_at"
)

// ParseOrdering validates a sort key such as "price" or "-created_at".
// Empty input sorts by name.
func ParseOrdering(s string) (Ordering, error) {
	if s == "" {
		return OrderByName, nil
	}
	switch Ordering(strings.TrimPrefix(s, "-")) {
	case OrderByName, OrderByPrice, OrderByCreatedAt:
		return Ordering(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrdering, s)
	}
}

// Field returns the sort key without direction.
func (o Ordering) Field() Ordering { return Ordering(strings.TrimPrefix(string(o), "-")) }

// Descending reports whether the ordering is reversed.
func (o Ordering) Descending() bool { return strings.HasPrefix(string(o), "-") }

// SupplementFilter narrows a supplement listing. Zero fields match everything.
// Query matches name, description, brand, ingredients and benefits,
// case-insensitively.
type SupplementFilter struct {
	Query      string
	CategoryID *uuid.UUID
	Type       *SupplementType
	Brand      string
	Available  *bool
	OrderBy    Ordering
	Limit      int
}

// CategoryRepository defines persistence operations for categories.
// Find methods return nil, nil when nothing matches.
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// List returns categories ordered by name whose name or description
	// contains query. An empty query lists all.
	List(ctx context.Context, query string) ([]*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplementRepository defines persistence operations for supplements.
// Find methods return nil, nil when nothing matches.
type SupplementRepository interface {
	Save(ctx context.Context, supplement *Supplement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Supplement, error)
	Search(ctx context.Context, filter SupplementFilter) ([]*Supplement, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

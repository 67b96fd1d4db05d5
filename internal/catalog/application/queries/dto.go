// Package queries holds the catalog read handlers.
package queries

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
)

// CategoryDTO is the read model of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupplementDTO is the read model of a supplement.
type SupplementDTO struct {
	ID                uuid.UUID `json:"id"`
	CategoryID        uuid.UUID `json:"category_id"`
	CategoryName      string    `json:"category_name,omitempty"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Brand             string    `json:"brand"`
	Type              string    `json:"type"`
	ServingSize       string    `json:"serving_size"`
	Ingredients       string    `json:"ingredients"`
	Benefits          string    `json:"benefits"`
	UsageInstructions string    `json:"usage_instructions"`
	Price             string    `json:"price"`
	Available         bool      `json:"available"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToCategoryDTO converts a category to its read model.
func ToCategoryDTO(c *domain.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		CreatedAt:   c.CreatedAt(),
	}
}

// ToSupplementDTO converts a supplement to its read model. categoryName may
// be empty.
func ToSupplementDTO(s *domain.Supplement, categoryName string) *SupplementDTO {
	d := s.Details()
	return &SupplementDTO{
		ID:                s.ID(),
		CategoryID:        s.CategoryID(),
		CategoryName:      categoryName,
		Name:              d.Name,
		Description:       d.Description,
		Brand:             d.Brand,
		Type:              string(d.Type),
		ServingSize:       d.ServingSize,
		Ingredients:       d.Ingredients,
		Benefits:          d.Benefits,
		UsageInstructions: d.UsageInstructions,
		Price:             s.Price().StringFixed(2),
		Available:         s.Available(),
		CreatedAt:         s.CreatedAt(),
		UpdatedAt:         s.UpdatedAt(),
	}
}

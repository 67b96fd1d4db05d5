package queries

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/catalog/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// SearchSupplementsQuery filters the supplement listing. Empty fields match
// everything. Type and Ordering take their string forms, so transports can
// pass user input through unchanged.
type SearchSupplementsQuery struct {
	Query      string
	CategoryID *uuid.UUID
	Type       string
	Brand      string
	Available  *bool
	Ordering   string
	Limit      int
}

// CatalogQueries handles the catalog read queries.
type CatalogQueries struct {
	categories  domain.CategoryRepository
	supplements domain.SupplementRepository
}

// NewCatalogQueries creates a new CatalogQueries.
func NewCatalogQueries(categories domain.CategoryRepository, supplements domain.SupplementRepository) *CatalogQueries {
	return &CatalogQueries{categories: categories, supplements: supplements}
}

// Categories lists categories whose name or description contains query.
func (q *CatalogQueries) Categories(ctx context.Context, query string) ([]*CategoryDTO, error) {
	categories, err := q.categories.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	dtos := make([]*CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = ToCategoryDTO(c)
	}
	return dtos, nil
}

// Category returns one category or ErrCategoryNotFound.
func (q *CatalogQueries) Category(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := q.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return ToCategoryDTO(category), nil
}

// Supplement returns one supplement with its category name, or
// ErrSupplementNotFound.
func (q *CatalogQueries) Supplement(ctx context.Context, id uuid.UUID) (*SupplementDTO, error) {
	supplement, err := q.supplements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplement == nil {
		return nil, domain.ErrSupplementNotFound
	}
	category, err := q.categories.FindByID(ctx, supplement.CategoryID())
	if err != nil {
		return nil, err
	}
	var categoryName string
	if category != nil {
		categoryName = category.Name()
	}
	return ToSupplementDTO(supplement, categoryName), nil
}

// Supplements lists supplements matching the query, ordered by name unless
// Ordering says otherwise.
func (q *CatalogQueries) Supplements(ctx context.Context, query SearchSupplementsQuery) ([]*SupplementDTO, error) {
	ordering, err := domain.ParseOrdering(query.Ordering)
	if err != nil {
		return nil, err
	}
	filter := domain.SupplementFilter{
		Query:      strings.TrimSpace(query.Query),
		CategoryID: query.CategoryID,
		Brand:      strings.TrimSpace(query.Brand),
		Available:  query.Available,
		OrderBy:    ordering,
		Limit:      query.Limit,
	}
	if query.Type != "" {
		supplementType, err := domain.ParseSupplementType(query.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &supplementType
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	filter.Limit = min(filter.Limit, maxListLimit)

	supplements, err := q.supplements.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	names, err := q.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*SupplementDTO, len(supplements))
	for i, s := range supplements {
		dtos[i] = ToSupplementDTO(s, names[s.CategoryID()])
	}
	return dtos, nil
}

func (q *CatalogQueries) categoryNames(ctx context.Context) (map[uuid.UUID]string, error) {
	categories, err := q.categories.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID()] = c.Name()
	}
	return names, nil
}

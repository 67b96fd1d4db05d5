package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/supplifit/supplifit/internal/partners/domain"
	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

// ErrEmptySearch is returned when a search has no terms.
var ErrEmptySearch = fmt.Errorf("%w: search query is empty", sharedDomain.ErrValidation)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// GetStoreQuery looks up a single store.
type GetStoreQuery struct {
	StoreID uuid.UUID
}

// ListStoresByOwnerQuery lists an owner's stores.
type ListStoresByOwnerQuery struct {
	OwnerID uuid.UUID
}

// SearchStoresQuery finds stores by name, registration number or address.
type SearchStoresQuery struct {
	Query string
	Limit int
}

// StoreQueries handles the store read queries.
type StoreQueries struct {
	repo domain.StoreRepository
}

// NewStoreQueries creates a new StoreQueries.
func NewStoreQueries(repo domain.StoreRepository) *StoreQueries {
	return &StoreQueries{repo: repo}
}

// Get returns one store or ErrStoreNotFound.
func (q *StoreQueries) Get(ctx context.Context, query GetStoreQuery) (*StoreDTO, error) {
	store, err := q.repo.FindByID(ctx, query.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	return toStoreDTO(store), nil
}

// ListByOwner returns the owner's stores, newest first.
func (q *StoreQueries) ListByOwner(ctx context.Context, query ListStoresByOwnerQuery) ([]*StoreDTO, error) {
	stores, err := q.repo.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	return toStoreDTOs(stores), nil
}

// Search matches stores case-insensitively.
func (q *StoreQueries) Search(ctx context.Context, query SearchStoresQuery) ([]*StoreDTO, error) {
	term := strings.TrimSpace(query.Query)
	if term == "" {
		return nil, ErrEmptySearch
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	stores, err := q.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	return toStoreDTOs(stores), nil
}

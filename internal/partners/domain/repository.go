package domain

import (
	"context"

	"github.com/google/uuid"
)

// StoreRepository defines persistence operations for partner stores.
// Find methods return nil, nil when nothing matches.
type StoreRepository interface {
	// Save inserts a new store or updates an existing one. Updates fail with
	// a conflict error when the stored version moved on.
	Save(ctx context.Context, store *Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByRegistrationNumber(ctx context.Context, registrationNumber string) (*Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Store, error)

	// Search matches name, registration number or address, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]*Store, error)
}

// Package domain models the supplement catalog: categories and the
// supplements listed under them.
package domain

import (
	"fmt"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

var (
	ErrCategoryNotFound   = fmt.Errorf("%w: supplement category", sharedDomain.ErrNotFound)
	ErrSupplementNotFound = fmt.Errorf("%w: supplement", sharedDomain.ErrNotFound)

	ErrEmptyCategoryName   = fmt.Errorf("%w: category name cannot be empty", sharedDomain.ErrValidation)
	ErrEmptySupplementName = fmt.Errorf("%w: supplement name cannot be empty", sharedDomain.ErrValidation)
	ErrEmptyBrand          = fmt.Errorf("%w: brand cannot be empty", sharedDomain.ErrValidation)
	ErrFieldTooLong        = fmt.Errorf("%w: field too long", sharedDomain.ErrValidation)
	ErrInvalidType         = fmt.Errorf("%w: unknown supplement type", sharedDomain.ErrValidation)
	ErrNegativePrice       = fmt.Errorf("%w: price must not be negative", sharedDomain.ErrValidation)
	ErrPricePrecision      = fmt.Errorf("%w: price allows at most 2 decimal places", sharedDomain.ErrValidation)
	ErrMissingCategory     = fmt.Errorf("%w: category is required", sharedDomain.ErrValidation)
	ErrInvalidOrdering     = fmt.Errorf("%w: unknown ordering", sharedDomain.ErrValidation)

	ErrCategoryInUse = fmt.Errorf("%w: category still has supplements", sharedDomain.ErrConflict)
)

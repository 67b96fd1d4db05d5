package domain

import "errors"

// Error categories. Context-specific errors wrap one of these so adapters can
// classify failures with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConflict               = errors.New("concurrent modification")
)

// IsValidation reports whether err belongs to the validation category.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err belongs to the not-found category.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidStateTransition reports whether err belongs to the state-transition category.
func IsInvalidStateTransition(err error) bool { return errors.Is(err, ErrInvalidStateTransition) }

// IsConflict reports whether err belongs to the optimistic-concurrency category.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

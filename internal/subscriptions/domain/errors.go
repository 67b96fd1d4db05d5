package domain

import (
	"fmt"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

var (
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription", sharedDomain.ErrNotFound)
	ErrPlanNotFound         = fmt.Errorf("%w: subscription plan", sharedDomain.ErrNotFound)

	ErrEmptyPlanName   = fmt.Errorf("%w: plan name cannot be empty", sharedDomain.ErrValidation)
	ErrInvalidPlanType = fmt.Errorf("%w: unknown plan type", sharedDomain.ErrValidation)
	ErrNegativePrice   = fmt.Errorf("%w: price must not be negative", sharedDomain.ErrValidation)
	ErrPricePrecision  = fmt.Errorf("%w: price allows at most 2 decimal places", sharedDomain.ErrValidation)
	ErrNegativeUnits   = fmt.Errorf("%w: units per period must not be negative", sharedDomain.ErrValidation)
	ErrMissingUser     = fmt.Errorf("%w: user is required", sharedDomain.ErrValidation)

	ErrPlanInactive          = fmt.Errorf("%w: plan is not available", sharedDomain.ErrInvalidStateTransition)
	ErrRenewalDisabled       = fmt.Errorf("%w: renewal is disabled for this subscription", sharedDomain.ErrInvalidStateTransition)
	ErrNoUnitsRemaining      = fmt.Errorf("%w: no units remaining", sharedDomain.ErrInvalidStateTransition)
	ErrAlreadyRenewed        = fmt.Errorf("%w: subscription was already renewed", sharedDomain.ErrInvalidStateTransition)
	ErrSubscriptionNotActive = fmt.Errorf("%w: subscription is not active", sharedDomain.ErrInvalidStateTransition)
	ErrSubscriptionExpired   = fmt.Errorf("%w: subscription has expired", sharedDomain.ErrInvalidStateTransition)
	ErrCannotActivate        = fmt.Errorf("%w: only pending subscriptions can be activated", sharedDomain.ErrInvalidStateTransition)
)

package domain

import (
	"context"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

// PlanRepository defines persistence operations for plans.
// Find methods return nil, nil when nothing matches.
type PlanRepository interface {
	Save(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	// List returns plans ordered by price.
	List(ctx context.Context, activeOnly bool) ([]*Plan, error)
}

// SubscriptionRepository defines persistence operations for subscriptions.
// Find methods return nil, nil when nothing matches.
type SubscriptionRepository interface {
	// Save inserts or updates a subscription. Updates fail with a conflict
	// error when the stored version moved on. Inserting a second successor
	// for the same predecessor fails with ErrAlreadyRenewed.
	Save(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindSuccessor returns the subscription renewed from id.
	FindSuccessor(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByUser returns the user's subscriptions, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Subscription, error)

	// FindCurrent returns the user's newest active subscription ending on or
	// after today.
	FindCurrent(ctx context.Context, userID uuid.UUID, today sharedDomain.Date) (*Subscription, error)

	// FindActiveEndingBefore returns active subscriptions with end date < day.
	FindActiveEndingBefore(ctx context.Context, day sharedDomain.Date) ([]*Subscription, error)

	// FindActiveEndingBetween returns active subscriptions with
	// from < end date <= to.
	FindActiveEndingBetween(ctx context.Context, from, to sharedDomain.Date) ([]*Subscription, error)
}

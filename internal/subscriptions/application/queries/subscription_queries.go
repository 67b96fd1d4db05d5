package queries

import (
	"context"

	"github.com/google/uuid"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

// GetSubscriptionQuery looks up one subscription.
type GetSubscriptionQuery struct {
	SubscriptionID uuid.UUID
}

// ListUserSubscriptionsQuery lists a user's subscriptions.
type ListUserSubscriptionsQuery struct {
	UserID uuid.UUID
}

// GetActiveSubscriptionQuery finds a user's running subscription.
type GetActiveSubscriptionQuery struct {
	UserID uuid.UUID
}

// ListPlansQuery lists the plan catalog.
type ListPlansQuery struct {
	ActiveOnly bool
}

// SubscriptionQueries handles the plan and subscription read queries.
type SubscriptionQueries struct {
	plans domain.PlanRepository
	subs  domain.SubscriptionRepository
	clock sharedDomain.Clock
}

// NewSubscriptionQueries creates a new SubscriptionQueries.
func NewSubscriptionQueries(plans domain.PlanRepository, subs domain.SubscriptionRepository, clock sharedDomain.Clock) *SubscriptionQueries {
	return &SubscriptionQueries{plans: plans, subs: subs, clock: clock}
}

// Get returns one subscription or ErrSubscriptionNotFound.
func (q *SubscriptionQueries) Get(ctx context.Context, query GetSubscriptionQuery) (*SubscriptionDTO, error) {
	sub, err := q.subs.FindByID(ctx, query.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return ToSubscriptionDTO(sub), nil
}

// ListByUser returns the user's subscriptions, newest first.
func (q *SubscriptionQueries) ListByUser(ctx context.Context, query ListUserSubscriptionsQuery) ([]*SubscriptionDTO, error) {
	subs, err := q.subs.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	return ToSubscriptionDTOs(subs), nil
}

// Active returns the user's latest active subscription that has not ended
// before today, or ErrSubscriptionNotFound.
func (q *SubscriptionQueries) Active(ctx context.Context, query GetActiveSubscriptionQuery) (*SubscriptionDTO, error) {
	sub, err := q.subs.FindCurrent(ctx, query.UserID, q.clock.Today())
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return ToSubscriptionDTO(sub), nil
}

// Plans returns the catalog ordered by price.
func (q *SubscriptionQueries) Plans(ctx context.Context, query ListPlansQuery) ([]*PlanDTO, error) {
	plans, err := q.plans.List(ctx, query.ActiveOnly)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = ToPlanDTO(p)
	}
	return dtos, nil
}

// Plan returns one plan or ErrPlanNotFound.
func (q *SubscriptionQueries) Plan(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := q.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return ToPlanDTO(plan), nil
}

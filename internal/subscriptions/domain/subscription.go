package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

const (
	// PeriodDays is the length of one subscription period.
	PeriodDays = 30

	// DefaultNoticeWindowDays is how far ahead expiring subscriptions are announced.
	DefaultNoticeWindowDays = 7
)

// Status is the lifecycle state of a subscription.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// Subscription is one period of a user's plan. Renewals append a new
// Subscription linked through RenewedFromID instead of extending this one.
type Subscription struct {
	sharedDomain.BaseAggregateRoot
	userID         uuid.UUID
	planID         uuid.UUID
	status         Status
	startDate      sharedDomain.Date
	endDate        sharedDomain.Date
	remainingUnits int
	renewalEnabled bool
	pricePaid      decimal.Decimal
	renewedFromID  *uuid.UUID
}

// NewSubscription creates a pending subscription for one period of plan
// starting on start.
func NewSubscription(userID uuid.UUID, plan *Plan, start sharedDomain.Date, now time.Time) (*Subscription, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if !plan.IsActive() {
		return nil, ErrPlanInactive
	}

	sub := &Subscription{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		userID:            userID,
		planID:            plan.ID(),
		status:            StatusPending,
		startDate:         start,
		endDate:           start.AddDays(PeriodDays),
		remainingUnits:    plan.UnitsPerPeriod(),
		renewalEnabled:    true,
		pricePaid:         plan.Price(),
	}
	sub.AddDomainEvent(NewSubscriptionCreated(sub, now))
	return sub, nil
}

// RehydrateSubscription recreates a subscription from persisted state.
func RehydrateSubscription(
	id, userID, planID uuid.UUID,
	status Status,
	startDate, endDate sharedDomain.Date,
	remainingUnits int,
	renewalEnabled bool,
	pricePaid decimal.Decimal,
	renewedFromID *uuid.UUID,
	version int,
	createdAt, updatedAt time.Time,
) *Subscription {
	return &Subscription{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		userID:         userID,
		planID:         planID,
		status:         status,
		startDate:      startDate,
		endDate:        endDate,
		remainingUnits: remainingUnits,
		renewalEnabled: renewalEnabled,
		pricePaid:      pricePaid,
		renewedFromID:  renewedFromID,
	}
}

func (s *Subscription) UserID() uuid.UUID            { return s.userID }
func (s *Subscription) PlanID() uuid.UUID            { return s.planID }
func (s *Subscription) Status() Status               { return s.status }
func (s *Subscription) StartDate() sharedDomain.Date { return s.startDate }
func (s *Subscription) EndDate() sharedDomain.Date   { return s.endDate }
func (s *Subscription) RemainingUnits() int          { return s.remainingUnits }
func (s *Subscription) RenewalEnabled() bool         { return s.renewalEnabled }
func (s *Subscription) PricePaid() decimal.Decimal   { return s.pricePaid }
func (s *Subscription) RenewedFromID() *uuid.UUID    { return s.renewedFromID }

// Activate moves a pending subscription to active. Activating an active
// subscription does nothing.
func (s *Subscription) Activate(now time.Time) error {
	switch s.status {
	case StatusActive:
		return nil
	case StatusPending:
		s.status = StatusActive
		s.AddDomainEvent(NewSubscriptionActivated(s, now))
		return nil
	default:
		return ErrCannotActivate
	}
}

// Cancel ends the subscription and turns renewal off. Cancelling twice
// does nothing; expired subscriptions cannot be cancelled.
func (s *Subscription) Cancel(now time.Time) error {
	switch s.status {
	case StatusCancelled:
		return nil
	case StatusExpired:
		return ErrSubscriptionExpired
	}

	previous := s.status
	s.status = StatusCancelled
	s.renewalEnabled = false
	s.AddDomainEvent(NewSubscriptionCancelled(s, previous, now))
	return nil
}

// Renew builds the successor for the next period. The successor starts at
// the later of this subscription's end date and today, runs for PeriodDays,
// and takes units and price from plan. The receiver is left untouched.
func (s *Subscription) Renew(plan *Plan, today sharedDomain.Date, now time.Time) (*Subscription, error) {
	if !s.renewalEnabled {
		return nil, ErrRenewalDisabled
	}

	start := sharedDomain.MaxDate(s.endDate, today)
	predecessor := s.ID()
	next := &Subscription{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		userID:            s.userID,
		planID:            plan.ID(),
		status:            StatusActive,
		startDate:         start,
		endDate:           start.AddDays(PeriodDays),
		remainingUnits:    plan.UnitsPerPeriod(),
		renewalEnabled:    true,
		pricePaid:         plan.Price(),
		renewedFromID:     &predecessor,
	}
	next.AddDomainEvent(NewSubscriptionRenewed(next, now))
	return next, nil
}

// ConsumeUnit uses one unit of an active subscription.
func (s *Subscription) ConsumeUnit(now time.Time) error {
	if s.remainingUnits <= 0 {
		return ErrNoUnitsRemaining
	}
	if s.status != StatusActive {
		return ErrSubscriptionNotActive
	}
	s.remainingUnits--
	s.AddDomainEvent(NewUnitConsumed(s, now))
	return nil
}

// IsOverdue reports whether an active subscription ended before today.
func (s *Subscription) IsOverdue(today sharedDomain.Date) bool {
	return s.status == StatusActive && s.endDate.Before(today)
}

// Expire marks an overdue subscription expired and reports whether it did.
func (s *Subscription) Expire(today sharedDomain.Date, now time.Time) bool {
	if !s.IsOverdue(today) {
		return false
	}
	s.status = StatusExpired
	s.AddDomainEvent(NewSubscriptionExpired(s, now))
	return true
}

// IsExpiringSoon reports whether an active subscription ends after today
// and within windowDays of it.
func (s *Subscription) IsExpiringSoon(today sharedDomain.Date, windowDays int) bool {
	return s.status == StatusActive &&
		s.endDate.After(today) &&
		!s.endDate.After(today.AddDays(windowDays))
}

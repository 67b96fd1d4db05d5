package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
)

var (
	ErrStoreNotFound       = fmt.Errorf("%w: store", sharedDomain.ErrNotFound)
	ErrStoreNameTooShort   = fmt.Errorf("%w: store name must have at least 3 characters", sharedDomain.ErrValidation)
	ErrInvalidRegistration = fmt.Errorf("%w: registration number must be 14 digits", sharedDomain.ErrValidation)
	ErrInvalidStoreStatus  = fmt.Errorf("%w: unknown store status", sharedDomain.ErrValidation)
	ErrRegistrationInUse   = fmt.Errorf("%w: registration number already registered", sharedDomain.ErrConflict)
	ErrMissingOwner        = fmt.Errorf("%w: store owner is required", sharedDomain.ErrValidation)
)

const (
	registrationNumberLength = 14
	minStoreNameLength       = 3
)

// StoreStatus represents the review state of a partner store.
type StoreStatus string

const (
	StoreStatusPending   StoreStatus = "pending"
	StoreStatusApproved  StoreStatus = "approved"
	StoreStatusRejected  StoreStatus = "rejected"
	StoreStatusSuspended StoreStatus = "suspended"
)

// IsValid checks if the status is known.
func (s StoreStatus) IsValid() bool {
	switch s {
	case StoreStatusPending, StoreStatusApproved, StoreStatusRejected, StoreStatusSuspended:
		return true
	default:
		return false
	}
}

// ParseStoreStatus converts user input to a StoreStatus.
func ParseStoreStatus(s string) (StoreStatus, error) {
	status := StoreStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStoreStatus, s)
	}
	return status, nil
}

// StoreDetails are the descriptive fields of a store.
type StoreDetails struct {
	Name               string
	RegistrationNumber string
	Address            string
	Phone              string
	Email              string
	Description        string
}

// Store is a partner store that sells through the platform.
type Store struct {
	sharedDomain.BaseAggregateRoot
	ownerID         uuid.UUID
	details         StoreDetails
	status          StoreStatus
	tier            Tier
	commissionRate  decimal.Decimal
	featured        bool
	prioritySupport bool
}

// NewStore creates a pending store with the preset for its tier. A non-nil
// rate overrides the preset commission rate.
func NewStore(ownerID uuid.UUID, tier Tier, details StoreDetails, rate *decimal.Decimal, now time.Time) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	preset, err := PresetFor(tier)
	if err != nil {
		return nil, err
	}
	details, err = normalizeDetails(details)
	if err != nil {
		return nil, err
	}

	commissionRate := preset.CommissionRate
	if rate != nil {
		if err := validateStoredRate(*rate); err != nil {
			return nil, err
		}
		commissionRate = *rate
	}

	store := &Store{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(now),
		ownerID:           ownerID,
		details:           details,
		status:            StoreStatusPending,
		tier:              tier,
		commissionRate:    commissionRate,
		featured:          preset.Featured,
		prioritySupport:   preset.PrioritySupport,
	}
	store.AddDomainEvent(NewStoreCreated(store, now))
	return store, nil
}

func normalizeDetails(d StoreDetails) (StoreDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	if len([]rune(d.Name)) < minStoreNameLength {
		return d, ErrStoreNameTooShort
	}
	d.RegistrationNumber = strings.TrimSpace(d.RegistrationNumber)
	if len(d.RegistrationNumber) != registrationNumberLength || strings.IndexFunc(d.RegistrationNumber, notDigit) >= 0 {
		return d, ErrInvalidRegistration
	}
	d.Address = strings.TrimSpace(d.Address)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Description = strings.TrimSpace(d.Description)
	return d, nil
}

func notDigit(r rune) bool { return !unicode.IsDigit(r) }

// RehydrateStore recreates a store from persisted state.
func RehydrateStore(
	id, ownerID uuid.UUID,
	details StoreDetails,
	status StoreStatus,
	tier Tier,
	commissionRate decimal.Decimal,
	featured, prioritySupport bool,
	version int,
	createdAt, updatedAt time.Time,
) *Store {
	return &Store{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		ownerID:         ownerID,
		details:         details,
		status:          status,
		tier:            tier,
		commissionRate:  commissionRate,
		featured:        featured,
		prioritySupport: prioritySupport,
	}
}

func (s *Store) OwnerID() uuid.UUID              { return s.ownerID }
func (s *Store) Details() StoreDetails           { return s.details }
func (s *Store) Name() string                    { return s.details.Name }
func (s *Store) RegistrationNumber() string      { return s.details.RegistrationNumber }
func (s *Store) Status() StoreStatus             { return s.status }
func (s *Store) Tier() Tier                      { return s.tier }
func (s *Store) CommissionRate() decimal.Decimal { return s.commissionRate }
func (s *Store) Featured() bool                  { return s.featured }
func (s *Store) PrioritySupport() bool           { return s.prioritySupport }

// ChangeStatus moves the store to status. Setting the current status is a no-op.
func (s *Store) ChangeStatus(status StoreStatus, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStoreStatus, status)
	}
	if s.status == status {
		return nil
	}
	previous := s.status
	s.status = status
	s.AddDomainEvent(NewStoreStatusChanged(s, previous, now))
	return nil
}

// StoreUpdate lists editable fields. Nil fields are left unchanged. The owner,
// registration number and tier are fixed at registration.
type StoreUpdate struct {
	Name           *string
	Address        *string
	Phone          *string
	Email          *string
	Description    *string
	CommissionRate *decimal.Decimal
}

// Update applies the non-nil fields of u and records a StoreUpdated event
// naming the fields that changed. An update that changes nothing records no
// event.
func (s *Store) Update(u StoreUpdate, now time.Time) error {
	next := s.details
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Address != nil {
		next.Address = *u.Address
	}
	if u.Phone != nil {
		next.Phone = *u.Phone
	}
	if u.Email != nil {
		next.Email = *u.Email
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	next, err := normalizeDetails(next)
	if err != nil {
		return err
	}
	rate := s.commissionRate
	if u.CommissionRate != nil {
		if err := validateStoredRate(*u.CommissionRate); err != nil {
			return err
		}
		rate = *u.CommissionRate
	}

	var changed []string
	for _, f := range []struct {
		name string
		diff bool
	}{
		{"name", next.Name != s.details.Name},
		{"address", next.Address != s.details.Address},
		{"phone", next.Phone != s.details.Phone},
		{"email", next.Email != s.details.Email},
		{"description", next.Description != s.details.Description},
		{"commission_rate", !rate.Equal(s.commissionRate)},
	} {
		if f.diff {
			changed = append(changed, f.name)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	s.details = next
	s.commissionRate = rate
	s.AddDomainEvent(NewStoreUpdated(s, changed, now))
	return nil
}

// Commission computes the commission on a sale at this store.
func (s *Store) Commission(policy CommissionPolicy, saleAmount decimal.Decimal) (CommissionResult, error) {
	return policy.Calculate(s.tier, s.commissionRate, saleAmount)
}

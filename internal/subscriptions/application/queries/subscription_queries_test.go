package queries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Save(ctx context.Context, plan *domain.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *mockPlanRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Plan, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Save(ctx context.Context, sub *domain.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriptionRepo) one(args mock.Arguments) (*domain.Subscription, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return m.one(m.Called(ctx, id))
}

func (m *mockSubscriptionRepo) FindSuccessor(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	return m.one(m.Called(ctx, id))
}

func (m *mockSubscriptionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Subscription, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindCurrent(ctx context.Context, userID uuid.UUID, today sharedDomain.Date) (*domain.Subscription, error) {
	return m.one(m.Called(ctx, userID, today))
}

func (m *mockSubscriptionRepo) FindActiveEndingBefore(ctx context.Context, day sharedDomain.Date) ([]*domain.Subscription, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindActiveEndingBetween(ctx context.Context, from, to sharedDomain.Date) ([]*domain.Subscription, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*domain.Subscription), args.Error(1)
}

var queryTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func testSubscription(userID uuid.UUID, status domain.Status) *domain.Subscription {
	return domain.RehydrateSubscription(uuid.New(), userID, uuid.New(), status,
		sharedDomain.MustParseDate("2024-01-10"), sharedDomain.MustParseDate("2024-02-09"),
		4, true, decimal.RequireFromString("99.90"), nil, 2, queryTime, queryTime)
}

func TestSubscriptionQueries_Get(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	q := NewSubscriptionQueries(new(mockPlanRepo), subs, sharedDomain.NewFixedClock(queryTime))
	ctx := context.Background()

	sub := testSubscription(uuid.New(), domain.StatusActive)
	subs.On("FindByID", ctx, sub.ID()).Return(sub, nil)
	missing := uuid.New()
	subs.On("FindByID", ctx, missing).Return(nil, nil)

	dto, err := q.Get(ctx, GetSubscriptionQuery{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Status)
	assert.Equal(t, 4, dto.RemainingUnits)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_date":"2024-01-10"`)
	assert.Contains(t, string(raw), `"price_paid":"99.9"`)
	assert.NotContains(t, string(raw), "renewed_from_id")

	_, err = q.Get(ctx, GetSubscriptionQuery{SubscriptionID: missing})
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
	assert.ErrorIs(t, err, sharedDomain.ErrNotFound)
}

func TestSubscriptionQueries_Active(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	q := NewSubscriptionQueries(new(mockPlanRepo), subs, sharedDomain.NewFixedClock(queryTime))
	ctx := context.Background()
	today := sharedDomain.MustParseDate("2024-01-15")

	userID := uuid.New()
	sub := testSubscription(userID, domain.StatusActive)
	subs.On("FindCurrent", ctx, userID, today).Return(sub, nil)
	lonely := uuid.New()
	subs.On("FindCurrent", ctx, lonely, today).Return(nil, nil)

	dto, err := q.Active(ctx, GetActiveSubscriptionQuery{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, sub.ID(), dto.ID)

	_, err = q.Active(ctx, GetActiveSubscriptionQuery{UserID: lonely})
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
	subs.AssertExpectations(t)
}

func TestSubscriptionQueries_ListByUser(t *testing.T) {
	subs := new(mockSubscriptionRepo)
	q := NewSubscriptionQueries(new(mockPlanRepo), subs, sharedDomain.NewFixedClock(queryTime))
	ctx := context.Background()

	userID := uuid.New()
	subs.On("FindByUser", ctx, userID).Return([]*domain.Subscription{
		testSubscription(userID, domain.StatusActive),
		testSubscription(userID, domain.StatusExpired),
	}, nil)

	dtos, err := q.ListByUser(ctx, ListUserSubscriptionsQuery{UserID: userID})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "expired", dtos[1].Status)

	failing := uuid.New()
	subs.On("FindByUser", ctx, failing).Return([]*domain.Subscription(nil), errors.New("db down"))
	_, err = q.ListByUser(ctx, ListUserSubscriptionsQuery{UserID: failing})
	assert.EqualError(t, err, "db down")
}

func TestSubscriptionQueries_Plans(t *testing.T) {
	plans := new(mockPlanRepo)
	q := NewSubscriptionQueries(plans, new(mockSubscriptionRepo), sharedDomain.NewFixedClock(queryTime))
	ctx := context.Background()

	basic, err := domain.NewPlan("Basic", domain.PlanBasic, "", decimal.RequireFromString("49.90"), 4, []string{"shaker"}, queryTime)
	require.NoError(t, err)
	plans.On("List", ctx, true).Return([]*domain.Plan{basic}, nil)
	plans.On("FindByID", ctx, basic.ID()).Return(basic, nil)
	plans.On("FindByID", ctx, mock.Anything).Return(nil, nil)

	dtos, err := q.Plans(ctx, ListPlansQuery{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "basic", dtos[0].PlanType)
	assert.Equal(t, []string{"shaker"}, dtos[0].Features)

	dto, err := q.Plan(ctx, basic.ID())
	require.NoError(t, err)
	assert.Equal(t, "Basic", dto.Name)

	_, err = q.Plan(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/database/dbtest"
	"github.com/supplifit/supplifit/internal/subscriptions/domain"
)

var baseTime = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	conn  database.Connection
	plans domain.PlanRepository
	subs  domain.SubscriptionRepository
	plan  *domain.Plan
}

// openRepos returns repositories over an empty schema.
type openRepos func(t *testing.T) fixture

func TestSQLiteRepositories(t *testing.T) {
	runRepoTests(t, func(t *testing.T) fixture {
		conn := dbtest.NewSQLite(t)
		return fixture{
			conn:  conn,
			plans: NewSQLitePlanRepository(conn),
			subs:  NewSQLiteSubscriptionRepository(conn),
		}
	})
}

func TestPostgresRepositories(t *testing.T) {
	runRepoTests(t, func(t *testing.T) fixture {
		conn := dbtest.NewPostgres(t, "subscriptions", "subscription_plans")
		return fixture{
			conn:  conn,
			plans: NewPostgresPlanRepository(conn),
			subs:  NewPostgresSubscriptionRepository(conn),
		}
	})
}

func runRepoTests(t *testing.T, open openRepos) {
	tests := map[string]func(*testing.T, openRepos){
		"plan save find list":        testPlanSaveFindList,
		"subscription save and find": testSubscriptionSaveAndFind,
		"version conflict":           testVersionConflict,
		"single successor":           testSingleSuccessor,
		"subscription queries":       testSubscriptionQueries,
		"rollback discards save":     testRollbackDiscardsSave,
	}
	for name, run := range tests {
		t.Run(name, func(t *testing.T) { run(t, open) })
	}
}

func newFixture(t *testing.T, open openRepos) fixture {
	t.Helper()
	f := open(t)
	plan, err := domain.NewPlan("Pro", domain.PlanPro, "Monthly box", decimal.RequireFromString("149.90"), 10, []string{"shipping", "coach"}, baseTime)
	require.NoError(t, err)
	require.NoError(t, f.plans.Save(context.Background(), plan))
	plan.ClearDomainEvents()
	f.plan = plan
	return f
}

func (f fixture) subscribe(t *testing.T, userID uuid.UUID, start string, at time.Time, activate bool) *domain.Subscription {
	t.Helper()
	sub, err := domain.NewSubscription(userID, f.plan, sharedDomain.MustParseDate(start), at)
	require.NoError(t, err)
	if activate {
		require.NoError(t, sub.Activate(at))
	}
	require.NoError(t, f.subs.Save(context.Background(), sub))
	sub.ClearDomainEvents()
	return sub
}

func testPlanSaveFindList(t *testing.T, open openRepos) {
	f := newFixture(t, open)
	ctx := context.Background()

	found, err := f.plans.FindByID(ctx, f.plan.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Pro", found.Name())
	assert.Equal(t, domain.PlanPro, found.PlanType())
	assert.True(t, decimal.RequireFromString("149.90").Equal(found.Price()))
	assert.Equal(t, []string{"shipping", "coach"}, found.Features())
	assert.True(t, found.IsActive())

	cheap, err := domain.NewPlan("Basic", domain.PlanBasic, "", decimal.RequireFromString("49.90"), 4, nil, baseTime)
	require.NoError(t, err)
	require.NoError(t, f.plans.Save(ctx, cheap))

	// Version 0 with no pending events makes Save insert the row.
	legacy := domain.RehydratePlan(uuid.New(), "Legacy", domain.PlanElite, "", decimal.RequireFromString("10"), 1, nil, false, 0, baseTime, baseTime)
	require.NoError(t, f.plans.Save(ctx, legacy))

	active, err := f.plans.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Basic", active[0].Name())
	assert.Equal(t, "Pro", active[1].Name())

	all, err := f.plans.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Legacy", all[0].Name())

	missing, err := f.plans.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testSubscriptionSaveAndFind(t *testing.T, open openRepos) {
	f := newFixture(t, open)
	ctx := context.Background()
	userID := uuid.New()

	sub := f.subscribe(t, userID, "2024-01-15", baseTime, false)

	found, err := f.subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, userID, found.UserID())
	assert.Equal(t, f.plan.ID(), found.PlanID())
	assert.Equal(t, domain.StatusPending, found.Status())
	assert.Equal(t, "2024-01-15", found.StartDate().String())
	assert.Equal(t, "2024-02-14", found.EndDate().String())
	assert.Equal(t, 10, found.RemainingUnits())
	assert.True(t, found.RenewalEnabled())
	assert.True(t, decimal.RequireFromString("149.90").Equal(found.PricePaid()))
	assert.Nil(t, found.RenewedFromID())
	assert.Equal(t, 1, found.Version())

	require.NoError(t, found.Activate(baseTime.Add(time.Minute)))
	require.NoError(t, found.ConsumeUnit(baseTime.Add(2*time.Minute)))
	require.NoError(t, f.subs.Save(ctx, found))

	reloaded, err := f.subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, reloaded.Status())
	assert.Equal(t, 9, reloaded.RemainingUnits())
	assert.Equal(t, 3, reloaded.Version())
}

func testVersionConflict(t *testing.T, open openRepos) {
	f := newFixture(t, open)
	ctx := context.Background()
	sub := f.subscribe(t, uuid.New(), "2024-01-15", baseTime, true)

	first, err := f.subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	second, err := f.subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)

	require.NoError(t, first.ConsumeUnit(baseTime))
	require.NoError(t, f.subs.Save(ctx, first))

	require.NoError(t, second.ConsumeUnit(baseTime))
	err = f.subs.Save(ctx, second)
	assert.ErrorIs(t, err, sharedDomain.ErrConflict)

	reloaded, err := f.subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.RemainingUnits())
}

func testSingleSuccessor(t *testing.T, open openRepos) {
	f := newFixture(t, open)
	ctx := context.Background()
	sub := f.subscribe(t, uuid.New(), "2024-01-15", baseTime, true)
	today := sharedDomain.MustParseDate("2024-02-10")

	next, err := sub.Renew(f.plan, today, baseTime)
	require.NoError(t, err)
	require.NoError(t, f.subs.Save(ctx, next))

	successor, err := f.subs.FindSuccessor(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, successor)
	assert.Equal(t, next.ID(), successor.ID())
	require.NotNil(t, successor.RenewedFromID())
	assert.Equal(t, sub.ID(), *successor.RenewedFromID())
	assert.Equal(t, "2024-02-14", successor.StartDate().String())

	again, err := sub.Renew(f.plan, today, baseTime)
	require.NoError(t, err)
	err = f.subs.Save(ctx, again)
	assert.ErrorIs(t, err, domain.ErrAlreadyRenewed)

	none, err := f.subs.FindSuccessor(ctx, next.ID())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func testSubscriptionQueries(t *testing.T, open openRepos) {
	f := newFixture(t, open)
	ctx := context.Background()
	userID := uuid.New()

	lapsed := f.subscribe(t, userID, "2023-12-10", baseTime, true)                     // ends 2024-01-09
	soon := f.subscribe(t, uuid.New(), "2023-12-20", baseTime.Add(time.Minute), true)  // ends 2024-01-19
	current := f.subscribe(t, userID, "2024-01-14", baseTime.Add(2*time.Minute), true) // ends 2024-02-13
	f.subscribe(t, uuid.New(), "2023-12-01", baseTime, false)                          // pending, overdue

	today := sharedDomain.MustParseDate("2024-01-15")

	byUser, err := f.subs.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, current.ID(), byUser[0].ID())
	assert.Equal(t, lapsed.ID(), byUser[1].ID())

	active, err := f.subs.FindCurrent(ctx, userID, today)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, current.ID(), active.ID())

	none, err := f.subs.FindCurrent(ctx, uuid.New(), today)
	require.NoError(t, err)
	assert.Nil(t, none)

	overdue, err := f.subs.FindActiveEndingBefore(ctx, today)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, lapsed.ID(), overdue[0].ID())

	expiring, err := f.subs.FindActiveEndingBetween(ctx, today, today.AddDays(domain.DefaultNoticeWindowDays))
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soon.ID(), expiring[0].ID())
}

func testRollbackDiscardsSave(t *testing.T, open openRepos) {
	f := open(t)
	plans, subs := f.plans, f.subs
	uow := database.NewUnitOfWork(f.conn)
	ctx := context.Background()

	plan, err := domain.NewPlan("Basic", domain.PlanBasic, "", decimal.RequireFromString("49.90"), 4, nil, baseTime)
	require.NoError(t, err)
	require.NoError(t, plans.Save(ctx, plan))

	sub, err := domain.NewSubscription(uuid.New(), plan, sharedDomain.MustParseDate("2024-01-15"), baseTime)
	require.NoError(t, err)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, subs.Save(txCtx, sub))
	require.NoError(t, uow.Rollback(txCtx))

	found, err := subs.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

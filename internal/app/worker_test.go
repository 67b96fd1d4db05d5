package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/supplifit/supplifit/internal/shared/domain"
	"github.com/supplifit/supplifit/internal/shared/infrastructure/eventbus"
	subscriptionsCommands "github.com/supplifit/supplifit/internal/subscriptions/application/commands"
	subscriptionsDomain "github.com/supplifit/supplifit/internal/subscriptions/domain"
)

func activeSubscription(t *testing.T, c *Container) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	plan, err := c.CreatePlanHandler.Handle(ctx, subscriptionsCommands.CreatePlanCommand{
		Name:           "Basic",
		PlanType:       "basic",
		Price:          decimal.RequireFromString("59.90"),
		UnitsPerPeriod: 1,
	})
	require.NoError(t, err)

	sub, err := c.CreateSubscriptionHandler.Handle(ctx, subscriptionsCommands.CreateSubscriptionCommand{
		UserID: uuid.New(),
		PlanID: plan.PlanID,
	})
	require.NoError(t, err)
	_, err = c.ActivateSubscriptionHandler.Handle(ctx, subscriptionsCommands.ActivateSubscriptionCommand{SubscriptionID: sub.ID()})
	require.NoError(t, err)
	return sub.ID()
}

func TestWorker_SweepsOnStartAndPublishes(t *testing.T) {
	clock := sharedDomain.FixedClockOn(sharedDomain.MustParseDate("2024-01-15"))
	publisher := &eventbus.RecordingPublisher{}
	c := newTestContainer(t, testConfig(t), WithClock(clock), WithPublisher(publisher))
	id := activeSubscription(t, c)

	clock.Advance(31 * 24 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(c, WorkerConfig{SweepInterval: time.Hour, RunOutbox: true})
	require.NoError(t, w.Start(ctx))

	require.Eventually(t, func() bool {
		last, _ := w.LastSweep()
		return last != nil
	}, 2*time.Second, 10*time.Millisecond)

	last, err := w.LastSweep()
	require.NoError(t, err)
	require.Len(t, last.Expired, 1)
	assert.Equal(t, id, last.Expired[0].ID())
	assert.Equal(t, "2024-02-15", last.Today.String())

	require.Eventually(t, func() bool {
		for _, m := range publisher.Messages() {
			if m.RoutingKey == subscriptionsDomain.RoutingKeySubscriptionExpired {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	w.Wait()
	assert.False(t, c.OutboxProcessor.IsRunning())
}

func TestWorker_SweepOnceWithNothingDue(t *testing.T) {
	c := newTestContainer(t, testConfig(t))
	w := NewWorker(c, WorkerConfigFrom(c))

	require.NoError(t, w.SweepOnce(context.Background()))
	last, err := w.LastSweep()
	require.NoError(t, err)
	assert.Empty(t, last.Expired)
	assert.Empty(t, last.SoonToExpire)
	assert.Zero(t, last.Notified)
}

func TestWorker_DisabledLoopsReturnImmediately(t *testing.T) {
	c := newTestContainer(t, testConfig(t))
	w := NewWorker(c, WorkerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Wait()

	last, err := w.LastSweep()
	assert.NoError(t, err)
	assert.Nil(t, last)
}

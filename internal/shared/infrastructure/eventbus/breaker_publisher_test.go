package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	broker := &RecordingPublisher{Err: errors.New("connection refused")}
	pub := NewBreakerPublisher(broker, BreakerConfig{
		Name:                "test",
		ConsecutiveFailures: 2,
		OpenTimeout:         time.Hour,
		HalfOpenRequests:    1,
	}, nil)

	require.Error(t, pub.Publish(ctx, "subscriptions.subscription.renewed", []byte(`{}`)))
	require.Error(t, pub.Publish(ctx, "subscriptions.subscription.renewed", []byte(`{}`)))
	assert.Equal(t, gobreaker.StateOpen, pub.State())

	broker.Err = nil
	err := pub.Publish(ctx, "subscriptions.subscription.renewed", []byte(`{}`))
	assert.ErrorIs(t, err, ErrPublisherUnavailable)
	assert.Empty(t, broker.Messages())
}

func TestBreakerPublisher_PassesThroughWhenHealthy(t *testing.T) {
	broker := &RecordingPublisher{}
	pub := NewBreakerPublisher(broker, DefaultBreakerConfig(), nil)

	require.NoError(t, pub.Publish(context.Background(), "partners.store.created", []byte(`{"a":1}`)))

	msgs := broker.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "partners.store.created", msgs[0].RoutingKey)
	assert.Equal(t, gobreaker.StateClosed, pub.State())
}

package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter(MetricSubscriptionsRenewed, 1)
	m.Counter(MetricSubscriptionsRenewed, 2)
	m.Counter(MetricCommissionCalculated, 1, T("tier", "enterprise"))
	m.Gauge("supplifit.outbox.lag_seconds", 1.5)
	m.Histogram("supplifit.commission.amount", 270)
	m.Timing(MetricOperationDuration, 5*time.Millisecond)

	assert.Equal(t, int64(3), m.GetCounter(MetricSubscriptionsRenewed))
	assert.Equal(t, int64(1), m.GetCounter(MetricCommissionCalculated, T("tier", "enterprise")))
	assert.Zero(t, m.GetCounter(MetricCommissionCalculated))
	assert.Equal(t, 1.5, m.GetGauge("supplifit.outbox.lag_seconds"))
	assert.Equal(t, []float64{270}, m.GetHistogram("supplifit.commission.amount"))
	assert.Len(t, m.GetTimings(MetricOperationDuration), 1)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap[MetricSubscriptionsRenewed])
	assert.Equal(t, int64(1), snap[MetricCommissionCalculated+":tier=enterprise"])

	m.Reset()
	assert.Zero(t, m.GetCounter(MetricSubscriptionsRenewed))
}

func TestTimeOperation(t *testing.T) {
	m := NewInMemoryMetrics()
	ctx := context.Background()

	require.NoError(t, TimeOperation(ctx, nil, m, "renew", func() error { return nil }))
	err := TimeOperation(ctx, nil, m, "renew", func() error { return errors.New("renewal disabled") })
	require.Error(t, err)

	op := T("operation", "renew")
	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, op))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, op))

	got, err := TimeOperationResult(ctx, nil, m, "calc", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestHealthRegistry(t *testing.T) {
	r := NewHealthRegistry()
	r.Register("database", DatabaseHealthChecker(func(context.Context) error { return nil }))
	r.Register("redis", RedisHealthChecker(func(context.Context) error { return errors.New("refused") }))

	health := r.Check(context.Background())
	assert.Equal(t, HealthStatusDegraded, health.Status)
	assert.Equal(t, HealthStatusHealthy, health.Checks["database"].Status)
	assert.Contains(t, health.Checks["redis"].Message, "refused")

	r.Register("database", DatabaseHealthChecker(func(context.Context) error { return errors.New("closed") }))
	assert.Equal(t, HealthStatusUnhealthy, r.Check(context.Background()).Status)

	assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
}

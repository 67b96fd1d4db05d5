package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker performs one health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs registered checks concurrently.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

// NewHealthRegistry creates a new health registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// OverallHealth is the aggregated health report.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// Check runs every checker and aggregates the worst status.
func (r *HealthRegistry) Check(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for k, v := range r.checkers {
		checkers[k] = v
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := checker(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now().UTC()

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	return OverallHealth{
		Status:    worst(results),
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
}

func worst(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, r := range results {
		switch r.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

// PingChecker reports failing status when ping returns an error. Use
// HealthStatusUnhealthy for hard dependencies and HealthStatusDegraded for
// ones the service can run without.
func PingChecker(component string, failing HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: failing, Message: component + " check failed: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Message: component + " reachable"}
	}
}

// DatabaseHealthChecker marks the service unhealthy without its database.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return PingChecker("database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker marks the service degraded without Redis.
func RedisHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return PingChecker("redis", HealthStatusDegraded, ping)
}

// RabbitMQHealthChecker marks the service degraded without the broker.
func RabbitMQHealthChecker(check func(ctx context.Context) error) HealthChecker {
	return PingChecker("rabbitmq", HealthStatusDegraded, check)
}

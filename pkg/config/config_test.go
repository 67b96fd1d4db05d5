package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedVars = []string{
	"APP_ENV", "APP_VERSION", "LOG_LEVEL", "LOG_FORMAT",
	"DATABASE_URL", "SQLITE_PATH", "DATABASE_MAX_CONNS",
	"REDIS_URL", "STORE_CACHE_TTL", "EXPIRY_NOTICE_TTL", "RABBITMQ_URL",
	"PUBLISHER_BREAKER_FAILURES", "PUBLISHER_BREAKER_TIMEOUT", "HTTP_ADDR",
	"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
	"OUTBOX_STATS_INTERVAL", "OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL",
	"OUTBOX_PROCESSOR_ENABLED", "WORKER_HEALTH_ADDR", "EXPIRY_SWEEP_INTERVAL",
	"EXPIRY_NOTICE_WINDOW_DAYS", "ENTERPRISE_COMMISSION_CAP", "MCP_ADDR", "MCP_AUTH_TOKEN",
	"MCP_ACTOR_ID",
}

// isolate blanks every managed variable for the duration of the test.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range managedVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseURL, "local SQLite mode by default")
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.True(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, time.Hour, cfg.ExpirySweepInterval)
	assert.Equal(t, 7, cfg.ExpiryNoticeWindow)
	assert.Equal(t, 5*time.Minute, cfg.StoreCacheTTL)
	assert.True(t, decimal.NewFromInt(5000).Equal(cfg.EnterpriseCommissionCap))
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://supplifit@db/supplifit")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "15m")
	t.Setenv("ENTERPRISE_COMMISSION_CAP", "7500.50")
	t.Setenv("MCP_AUTH_TOKEN", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://supplifit@db/supplifit", cfg.DatabaseURL)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.False(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, 15*time.Minute, cfg.ExpirySweepInterval)
	assert.Equal(t, "7500.5", cfg.EnterpriseCommissionCap.String())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "lots")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "hourly")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, time.Hour, cfg.ExpirySweepInterval)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad commission cap", map[string]string{"ENTERPRISE_COMMISSION_CAP": "five thousand"}},
		{"negative commission cap", map[string]string{"ENTERPRISE_COMMISSION_CAP": "-1"}},
		{"zero notice window", map[string]string{"EXPIRY_NOTICE_WINDOW_DAYS": "0"}},
		{"production mcp without token", map[string]string{"APP_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	// godotenv never overrides variables that exist, even empty ones.
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))
	require.NoError(t, os.Unsetenv("ENTERPRISE_COMMISSION_CAP"))
	t.Setenv("EXPIRY_NOTICE_WINDOW_DAYS", "3")

	path := filepath.Join(t.TempDir(), "supplifit.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"HTTP_ADDR=127.0.0.1:9999\nENTERPRISE_COMMISSION_CAP=2500\nEXPIRY_NOTICE_WINDOW_DAYS=10\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	assert.Equal(t, "2500", cfg.EnterpriseCommissionCap.String())
	assert.Equal(t, 3, cfg.ExpiryNoticeWindow, "environment wins over the file")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

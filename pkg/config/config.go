package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv     string
	AppVersion string
	LogLevel   string
	LogFormat  string

	// Database. An empty DatabaseURL selects local SQLite mode.
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis. Empty disables the store cache and uses in-memory notice dedupe.
	RedisURL        string
	StoreCacheTTL   time.Duration
	ExpiryNoticeTTL time.Duration

	// RabbitMQ. Empty selects the in-process event bus.
	RabbitMQURL string

	// Publisher circuit breaker
	BreakerFailures    int
	BreakerOpenTimeout time.Duration

	// HTTP API
	HTTPAddr string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr    string
	ExpirySweepInterval time.Duration
	ExpiryNoticeWindow  int

	// Commission
	EnterpriseCommissionCap decimal.Decimal

	// MCP
	MCPAddr      string
	MCPAuthToken string
	MCPActorID   string
}

// Load loads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile loads path into the environment, then reads configuration like
// Load. Variables already set in the environment win over the file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		AppVersion: getEnv("APP_VERSION", "dev"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", ""),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:        getEnv("REDIS_URL", ""),
		StoreCacheTTL:   getDurationEnv("STORE_CACHE_TTL", 5*time.Minute),
		ExpiryNoticeTTL: getDurationEnv("EXPIRY_NOTICE_TTL", 8*24*time.Hour),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		BreakerFailures:    getIntEnv("PUBLISHER_BREAKER_FAILURES", 5),
		BreakerOpenTimeout: getDurationEnv("PUBLISHER_BREAKER_TIMEOUT", 30*time.Second),

		HTTPAddr: getEnv("HTTP_ADDR", "0.0.0.0:8080"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr:    getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		ExpirySweepInterval: getDurationEnv("EXPIRY_SWEEP_INTERVAL", time.Hour),
		ExpiryNoticeWindow:  getIntEnv("EXPIRY_NOTICE_WINDOW_DAYS", 7),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
		MCPActorID:   getEnv("MCP_ACTOR_ID", ""),
	}

	commissionCap, err := getDecimalEnv("ENTERPRISE_COMMISSION_CAP", decimal.NewFromInt(5000))
	if err != nil {
		return nil, err
	}
	cfg.EnterpriseCommissionCap = commissionCap

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
	}
	if c.ExpirySweepInterval <= 0 {
		return fmt.Errorf("EXPIRY_SWEEP_INTERVAL must be positive, got %s", c.ExpirySweepInterval)
	}
	if c.ExpiryNoticeWindow < 1 {
		return fmt.Errorf("EXPIRY_NOTICE_WINDOW_DAYS must be at least 1, got %d", c.ExpiryNoticeWindow)
	}
	if c.EnterpriseCommissionCap.IsNegative() {
		return fmt.Errorf("ENTERPRISE_COMMISSION_CAP must not be negative")
	}
	if c.IsProduction() && c.MCPAuthToken == "" && c.MCPAddr != "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required in production")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

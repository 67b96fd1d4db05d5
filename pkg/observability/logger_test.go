package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Formats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf, ServiceName: "supplifit"})

		logger.Info("store created", "tier", "premium")

		assert.Contains(t, buf.String(), "store created")
		assert.Contains(t, buf.String(), "tier=premium")
		assert.Contains(t, buf.String(), "service=supplifit")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf, ServiceVersion: "1.2.3"})

		logger.Info("subscription renewed", "subscription_id", "abc")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "subscription renewed", entry["msg"])
		assert.Equal(t, "abc", entry["subscription_id"])
		assert.Equal(t, "1.2.3", entry["version"])
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Output: &buf})

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestLogConfigFor(t *testing.T) {
	dev := LogConfigFor("development", "", "", "")
	assert.Equal(t, LogFormatText, dev.Format)
	assert.Equal(t, LogLevelInfo, dev.Level)

	prod := LogConfigFor("production", "debug", "", "v9")
	assert.Equal(t, LogFormatJSON, prod.Format)
	assert.Equal(t, LogLevelDebug, prod.Level)
	assert.Equal(t, "v9", prod.ServiceVersion)

	forced := LogConfigFor("production", "", "text", "")
	assert.Equal(t, LogFormatText, forced.Format)
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel(LogLevelDebug))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel(LogLevelWarn))
	assert.Equal(t, slog.LevelError, parseSlogLevel(LogLevelError))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("verbose"))
}

func TestLogger_AddsRequestScope(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})

	ctx := WithRequestID(WithCorrelationID(context.Background(), "corr-123"), "req-456")
	logger.With("component", "api").InfoContext(ctx, "request handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry[CorrelationIDKey])
	assert.Equal(t, "req-456", entry[RequestIDKey])
	assert.Equal(t, "api", entry["component"])
}

func TestNewRequestContext(t *testing.T) {
	ctx := NewRequestContext(context.Background(), "upstream")
	assert.Equal(t, "upstream", CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))

	fresh := NewRequestContext(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(fresh))
}

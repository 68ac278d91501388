package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_AddsServiceAndContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "ticket-analytics",
		Environment: "test",
	})

	ctx := WithSubject(WithRequestID(context.Background(), "req-1"), "dashboard")
	logger.DebugContext(ctx, "export parsed", "parsed", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "export parsed", entry["msg"])
	assert.Equal(t, "ticket-analytics", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "dashboard", entry["subject"])
	assert.Equal(t, float64(3), entry["parsed"])

	_, err := time.Parse(time.RFC3339Nano, entry["time"].(string))
	assert.NoError(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: "text", Output: &buf, ServiceName: "ticket-analytics"}).
		With("component", "analytics_service")

	logger.Info("overview computed")
	assert.Contains(t, buf.String(), "msg=\"overview computed\"")
	assert.Contains(t, buf.String(), "service=ticket-analytics")
	assert.Contains(t, buf.String(), "component=analytics_service")
}

func TestNewLogger_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "verbose", Output: &buf})

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.Info("shown")
	assert.Equal(t, "INFO", decodeLine(t, &buf)["level"])
}

func TestNewLogger_OmitsEmptyMetadata(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(Config{Output: &buf}).InfoContext(context.Background(), "x")

	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "service")
	assert.NotContains(t, entry, "environment")
	assert.NotContains(t, entry, "request_id")
}

func TestGetRequestID(t *testing.T) {
	assert.Equal(t, "req-9", GetRequestID(WithRequestID(context.Background(), "req-9")))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestLogPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf})

	LogPanic(context.Background(), logger, "boom", "path", "/x")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
	assert.Equal(t, "/x", entry["path"])
	assert.Contains(t, entry["stack_trace"], "TestLogPanic")
}

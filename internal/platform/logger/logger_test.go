// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/aigen-api/internal/config"
	"github.com/eduforge/aigen-api/internal/platform/logger"
)

// TestSetupReturnsLogger verifies that Setup returns a usable logger for
// every valid level and installs it as the process default.
func TestSetupReturnsLogger(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		t.Run(level, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: level})
			require.NoError(t, err)
			require.NotNil(t, log, "Setup should return the configured logger")
			assert.Same(t, log, slog.Default(), "Setup should install the logger as default")
		})
	}
}

// TestSetupInvalidLevelFallsBack verifies that an unknown level falls back
// to info instead of failing.
func TestSetupInvalidLevelFallsBack(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: "noisy"})
	require.NoError(t, err)
	require.NotNil(t, log)

	// Info must be enabled, debug must not.
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

// TestSetupLevelFiltering verifies the configured level is honored.
func TestSetupLevelFiltering(t *testing.T) {
	originalDefault := slog.Default()
	defer slog.SetDefault(originalDefault)

	log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: "warn"})
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelInfo))
	assert.True(t, log.Enabled(ctx, slog.LevelWarn))
	assert.True(t, log.Enabled(ctx, slog.LevelError))
}

// TestFromContextRoundTrip verifies that WithLogger stores a logger that
// FromContext retrieves unchanged.
func TestFromContextRoundTrip(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), log)
	got := logger.FromContext(ctx)
	require.Same(t, log, got)

	got.Info("hello from context")
	logger.AssertLogContains(t, buf, "hello from context")
}

// TestFromContextFallsBackToDefault verifies the default logger is used
// when the context carries none.
func TestFromContextFallsBackToDefault(t *testing.T) {
	got := logger.FromContext(context.Background())
	require.NotNil(t, got)
	assert.Same(t, slog.Default(), got)
}

// TestGetLogEntriesParsesJSON verifies captured output parses as one JSON
// object per line.
func TestGetLogEntriesParsesJSON(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	log.Info("first", "key", "value")
	log.Warn("second")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "WARN", entries[1]["level"])
}

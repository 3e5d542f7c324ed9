package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.TickInterval)
	assert.Equal(t, 50, cfg.StartingCoins)
	assert.Equal(t, 64, cfg.EventBuffer)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogDev)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
	assert.True(t, cfg.DailyRollover)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("QP_TICK_INTERVAL", "5s")
	t.Setenv("QP_STARTING_COINS", "-20")
	t.Setenv("QP_LOG_DEV", "true")
	t.Setenv("QP_DAILY_ROLLOVER", "false")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.Equal(t, -20, cfg.StartingCoins)
	assert.True(t, cfg.LogDev)
	assert.False(t, cfg.DailyRollover)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Setenv("QP_TICK_INTERVAL", "0s")
	_, err := Parse()
	require.Error(t, err)

	t.Setenv("QP_TICK_INTERVAL", "1s")
	t.Setenv("QP_EVENT_BUFFER", "0")
	_, err = Parse()
	require.Error(t, err)

	t.Setenv("QP_EVENT_BUFFER", "many")
	_, err = Parse()
	require.Error(t, err)
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QP_HTTP_ADDR=127.0.0.1:9999\n"), 0o600))
	t.Setenv("QP_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("QP_HTTP_ADDR"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTPAddr)
	require.NoError(t, os.Unsetenv("QP_HTTP_ADDR"))

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTPAddr)
}

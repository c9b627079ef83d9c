package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Storage config
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, int64(4<<20), cfg.Storage.Capacity)

	// Shell config
	assert.Equal(t, 100, cfg.Shell.HistoryCapacity)
	assert.Equal(t, 30*time.Second, cfg.Shell.FetchTimeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	// Should return default when no env vars set
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":             "9000",
		"HOST":             "127.0.0.1",
		"STORAGE_BACKEND":  "disk",
		"STORAGE_CAPACITY": "1024",
		"HISTORY_CAPACITY": "5",
		"FETCH_TIMEOUT":    "5s",
		"LOG_LEVEL":        "debug",
		"LOG_DEV":          "true",
	}
	for k, v := range envVars {
		os.Setenv(k, v)
	}
	defer func() {
		for k := range envVars {
			os.Unsetenv(k)
		}
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, int64(1024), cfg.Storage.Capacity)
	assert.Equal(t, 5, cfg.Shell.HistoryCapacity)
	assert.Equal(t, 5*time.Second, cfg.Shell.FetchTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

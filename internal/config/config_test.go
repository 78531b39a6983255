package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"BACKEND_URL", "SERVER_PORT", "HTTP_TIMEOUT_SECONDS", "LOG_LEVEL",
	"LOG_PRETTY", "FEEDBACK_TTL_SECONDS", "ACTIVITY_REFRESH_SECONDS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
	assert.Equal(t, "8090", cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, 4*time.Second, cfg.FeedbackTTL)
	assert.Equal(t, 30*time.Second, cfg.ActivityRefreshInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://social.example.com/")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("FEEDBACK_TTL_SECONDS", "2")
	t.Setenv("ACTIVITY_REFRESH_SECONDS", "60")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "https://social.example.com", cfg.BackendURL, "trailing slash is trimmed")
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, 2*time.Second, cfg.FeedbackTTL)
	assert.Equal(t, time.Minute, cfg.ActivityRefreshInterval)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_TIMEOUT_SECONDS", "abc")
	t.Setenv("FEEDBACK_TTL_SECONDS", "0")
	t.Setenv("ACTIVITY_REFRESH_SECONDS", "-5")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 4*time.Second, cfg.FeedbackTTL)
	assert.Equal(t, 30*time.Second, cfg.ActivityRefreshInterval)
}

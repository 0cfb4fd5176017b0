package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hublens-backend/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APS_CLIENT_ID", "client-id")
	t.Setenv("APS_CLIENT_SECRET", "client-secret")
	t.Setenv("APS_CALLBACK_URL", "http://localhost:8080/api/auth/callback")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "US", cfg.APSRegion)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 150, cfg.PollMaxAttempts)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("APS_REGION", "EMEA")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("POLL_MAX_ATTEMPTS", "10")
	t.Setenv("CORS_ORIGINS", "http://a.example.com, http://b.example.com")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, "EMEA", cfg.APSRegion)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.PollMaxAttempts)
	assert.Equal(t, []string{"http://a.example.com", "http://b.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfigYAMLFileWithEnvPrecedence(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server_address: \":7000\"\npoll_max_attempts: 42\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("HUBLENS_CONFIG_PATH", path)
	t.Setenv("SERVER_ADDRESS", ":7001")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7001", cfg.ServerAddress, "env overrides the file")
	assert.Equal(t, 42, cfg.PollMaxAttempts, "file overrides the default")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("APS_CLIENT_ID", "")
	t.Setenv("APS_CLIENT_SECRET", "")
	t.Setenv("APS_CALLBACK_URL", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigInvalidRegion(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APS_REGION", "APAC")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigProductionRequiresStateSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATE_SECRET")

	t.Setenv("STATE_SECRET", "super-secret")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

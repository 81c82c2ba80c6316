package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "APP_ENV", "LOG_LEVEL", "DB_DRIVER", "DB_DSN",
		"AGENT_BASE_URL", "AGENT_TIMEOUT", "CORS_ORIGINS", "RATE_LIMIT_RPM",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.Production())
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.NotEmpty(t, cfg.DBDSN)
	assert.Equal(t, "http://localhost:8000", cfg.AgentBaseURL)
	assert.Equal(t, 60*time.Second, cfg.AgentTimeout)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Zero(t, cfg.RateLimitRPM)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AGENT_TIMEOUT", "15s")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("RATE_LIMIT_RPM", "120")

	cfg := Load()
	assert.True(t, cfg.Production())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.AgentTimeout)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 120, cfg.RateLimitRPM)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_RPM", "-5")

	cfg := Load()
	assert.Equal(t, 60*time.Second, cfg.AgentTimeout)
	assert.Zero(t, cfg.RateLimitRPM)
}

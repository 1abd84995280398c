package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("AUTH_BCRYPT_COST", "")
	t.Setenv("AUTH_SESSION_TTL_HOURS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
	assert.Equal(t, DefaultAdminPassword, cfg.Auth.AdminPassword)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, "ES", cfg.WhatsApp.DefaultRegion)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_SESSION_TTL_HOURS", "2")
	t.Setenv("RATE_LIMIT_INTAKE_WINDOW_SECONDS", "30")
	t.Setenv("AUTH_COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 30*time.Second, cfg.RateLimit.IntakeWindow())
	assert.True(t, cfg.Auth.CookieSecure)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	_, err := Load()
	assert.Error(t, err)
}

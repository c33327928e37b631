package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "visa_admin_session", cfg.Session.CookieName)
	assert.Equal(t, 10, cfg.Grid.PageSize)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Audit.AutoMigrate)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://visa.example/api/v1/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("GRID_PAGE_SIZE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://visa.example/api/v1/", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Grid.PageSize)
}

func TestProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvProduction, cfg.Env)
}

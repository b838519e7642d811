package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/coursekit")
	t.Setenv("IDENTITY_JWT_SECRET", "secret")
	t.Setenv("IDENTITY_SYNC_SECRET", "sync")
	t.Setenv("ADMIN_EMAILS", "admin@example.com, second@example.com ,")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")
	t.Setenv("METRICS_SAMPLE_INTERVAL", "30")

	cfg := Load()
	assert.Equal(t, "postgres://localhost/coursekit", cfg.DatabaseURL)
	assert.Equal(t, []string{"admin@example.com", "second@example.com"}, cfg.AdminEmails)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CorsOrigins)
	assert.Equal(t, 30, cfg.MetricsSampleSeconds)
	assert.Equal(t, "coursekit-identity", cfg.IdentityJWTIssuer)
}

func TestLoadPanicsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("IDENTITY_JWT_SECRET", "secret")
	t.Setenv("IDENTITY_SYNC_SECRET", "sync")

	assert.Panics(t, func() { Load() })
}

func TestIsAdminEmail(t *testing.T) {
	cfg := Config{AdminEmails: []string{"Admin@Example.com"}}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("  ADMIN@EXAMPLE.COM "))
	assert.False(t, cfg.IsAdminEmail("other@example.com"))
	assert.False(t, Config{}.IsAdminEmail("admin@example.com"))
}

func TestEnvOrInt(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 15, envOrInt("SOME_INT", 15))

	t.Setenv("SOME_INT", "42")
	assert.Equal(t, 42, envOrInt("SOME_INT", 15))
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.HasIMAP())
	assert.False(t, cfg.HasSMTP())
}

func TestLoadAllowedOriginsList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg := Load()

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadFallsBackToFrontendURL(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://tasks.example.com")

	cfg := Load()

	assert.Equal(t, []string{"https://tasks.example.com"}, cfg.AllowedOrigins)
}

func TestHasIMAP(t *testing.T) {
	t.Setenv("EMAIL_HOST", "imap.example.com")
	t.Setenv("EMAIL_USER", "reports@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")

	cfg := Load()

	assert.True(t, cfg.HasIMAP())
	assert.Equal(t, "993", cfg.IMAPPort)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "Production")

	assert.True(t, Load().IsProduction())
}

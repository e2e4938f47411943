package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT",
		"LLM_MAX_ATTEMPTS", "SOURCE_RESOLUTION_ENABLED", "CORS_ALLOWED_ORIGINS", "AUTH_MODE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gpt-5-mini", cfg.LLMModel)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1, cfg.LLMMaxAttempts)
	assert.True(t, cfg.SourceResolutionEnabled)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsGatewayMode())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("LLM_MAX_ATTEMPTS", "3")
	t.Setenv("SOURCE_RESOLUTION_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("AUTH_MODE", "gateway")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 3, cfg.LLMMaxAttempts)
	assert.False(t, cfg.SourceResolutionEnabled)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsGatewayMode())
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("LLM_MAX_ATTEMPTS", "-2")

	cfg := Load()
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1, cfg.LLMMaxAttempts)
}

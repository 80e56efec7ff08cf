package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "CONVERSATION_STORE", "LLM_TIMEOUT", "PROVIDER_TIMEOUT", "BOOKING_TIMEOUT", "SEARCH_RATE_PER_SECOND", "GO_ENV"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	cfg := Load()

	assert.Equal(t, "7005", cfg.App.Port)
	assert.Equal(t, "memory", cfg.Database.Store)
	assert.Equal(t, 5*time.Minute, cfg.Ai.LLMTimeout)
	assert.Equal(t, 15*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Providers.BookingTimeout)
	assert.Equal(t, 5, cfg.Providers.SearchRatePerSec)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GO_ENV", "production")
	t.Setenv("CONVERSATION_STORE", "mongo")
	t.Setenv("LLM_TIMEOUT", "90")
	t.Setenv("BOOKING_TIMEOUT", "2s")
	t.Setenv("SEARCH_RATE_PER_SECOND", "not-a-number")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mongo", cfg.Database.Store)
	assert.Equal(t, 90*time.Second, cfg.Ai.LLMTimeout)
	assert.Equal(t, 2*time.Second, cfg.Providers.BookingTimeout)
	assert.Equal(t, 5, cfg.Providers.SearchRatePerSec)
	assert.True(t, cfg.App.OtelEnabled)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envFrom(map[string]string{
		"JWT_SECRET":   "secret",
		"DATABASE_URL": "postgres://localhost:5432/vyra",
	}))

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, LedgerBackendPostgres, cfg.LedgerBackend)
	assert.Equal(t, 5, cfg.FreeDailyLimit)
	assert.Equal(t, 100, cfg.PremiumDailyLimit)
	assert.Equal(t, 300*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.LedgerMaxAttempts)
	assert.Equal(t, "dall-e-3", cfg.ImageModel)
	assert.False(t, cfg.TrustClientTier)
	assert.Empty(t, cfg.OpenAIKey, "provider keys are optional at boot")
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	_, err := Load(envFrom(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/vyra",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_MemoryBackendNeedsNoDatabase(t *testing.T) {
	cfg, err := Load(envFrom(map[string]string{
		"JWT_SECRET":     "secret",
		"LEDGER_BACKEND": "memory",
	}))

	require.NoError(t, err)
	assert.Equal(t, LedgerBackendMemory, cfg.LedgerBackend)
}

func TestLoad_PremiumMustExceedFree(t *testing.T) {
	_, err := Load(envFrom(map[string]string{
		"JWT_SECRET":          "secret",
		"LEDGER_BACKEND":      "memory",
		"FREE_DAILY_LIMIT":    "10",
		"PREMIUM_DAILY_LIMIT": "10",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREMIUM_DAILY_LIMIT")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad limit", "FREE_DAILY_LIMIT", "five"},
		{"bad timeout", "REQUEST_TIMEOUT", "soon"},
		{"bad bool", "TRUST_CLIENT_TIER", "maybe"},
		{"bad backend", "LEDGER_BACKEND", "firestore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]string{
				"JWT_SECRET":     "secret",
				"LEDGER_BACKEND": "memory",
			}
			vars[tt.key] = tt.val

			_, err := Load(envFrom(vars))
			assert.Error(t, err)
		})
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	cfg, err := Load(envFrom(map[string]string{
		"JWT_SECRET":           "secret",
		"LEDGER_BACKEND":       "memory",
		"CORS_ALLOWED_ORIGINS": "https://vyra.app, ,http://localhost:5173",
	}))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://vyra.app", "http://localhost:5173"}, cfg.AllowedOrigins)
}

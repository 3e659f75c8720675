package config

import "time"

// ledger store backends
const (
	LedgerBackendPostgres = "postgres"
	LedgerBackendMemory   = "memory"
)

type Config struct {
	Environment string
	Port        string

	DatabaseURL            string
	DatabaseSimpleProtocol bool
	LedgerBackend          string
	MigrateOnStart         bool
	RedisURL               string
	JWTSecret              string

	// provider credentials are optional at boot; a missing key surfaces as a
	// configuration error on first use
	OpenAIKey      string
	GeminiKey      string
	ImageModel     string
	OptimizerModel string

	FreeDailyLimit    int
	PremiumDailyLimit int
	TrustClientTier   bool

	RequestTimeout    time.Duration
	OptimizerTimeout  time.Duration
	LedgerMaxAttempts int

	// ulule/limiter formatted rate, e.g. "20-M"
	RateLimit string

	AllowedOrigins []string
}

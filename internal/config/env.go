package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultImageModel        = "dall-e-3"
	defaultOptimizerModel    = "gemini-2.0-flash"
	defaultFreeDailyLimit    = 5
	defaultPremiumDailyLimit = 100
	defaultRequestTimeout    = 300 * time.Second
	defaultOptimizerTimeout  = 20 * time.Second
	defaultLedgerMaxAttempts = 5
	defaultRateLimit         = "20-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return Load(os.Getenv)
}

// builds a Config from the given lookup function
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:    getenv("ENVIRONMENT"),
		Port:           getenv("PORT"),
		DatabaseURL:    getenv("DATABASE_URL"),
		LedgerBackend:  getenv("LEDGER_BACKEND"),
		RedisURL:       getenv("REDIS_URL"),
		JWTSecret:      getenv("JWT_SECRET"),
		OpenAIKey:      getenv("OPENAI_API_KEY"),
		GeminiKey:      getenv("GEMINI_API_KEY"),
		ImageModel:     getenv("IMAGE_MODEL"),
		OptimizerModel: getenv("OPTIMIZER_MODEL"),
		RateLimit:      getenv("RATE_LIMIT"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = LedgerBackendPostgres
	}

	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}

	if cfg.OptimizerModel == "" {
		cfg.OptimizerModel = defaultOptimizerModel
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	cfg.AllowedOrigins = listVar(getenv, "CORS_ALLOWED_ORIGINS")

	var err error

	if cfg.FreeDailyLimit, err = intVar(getenv, "FREE_DAILY_LIMIT", defaultFreeDailyLimit); err != nil {
		return nil, err
	}

	if cfg.PremiumDailyLimit, err = intVar(getenv, "PREMIUM_DAILY_LIMIT", defaultPremiumDailyLimit); err != nil {
		return nil, err
	}

	if cfg.LedgerMaxAttempts, err = intVar(getenv, "LEDGER_MAX_ATTEMPTS", defaultLedgerMaxAttempts); err != nil {
		return nil, err
	}

	if cfg.RequestTimeout, err = durationVar(getenv, "REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}

	if cfg.OptimizerTimeout, err = durationVar(getenv, "OPTIMIZER_TIMEOUT", defaultOptimizerTimeout); err != nil {
		return nil, err
	}

	if cfg.TrustClientTier, err = boolVar(getenv, "TRUST_CLIENT_TIER"); err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart, err = boolVar(getenv, "MIGRATE_ON_START"); err != nil {
		return nil, err
	}

	if cfg.DatabaseSimpleProtocol, err = boolVar(getenv, "DATABASE_SIMPLE_PROTOCOL"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// checks required fields and cross-field constraints
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch c.LedgerBackend {
	case LedgerBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case LedgerBackendMemory:
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", LedgerBackendPostgres, LedgerBackendMemory, c.LedgerBackend)
	}

	if c.FreeDailyLimit < 1 {
		return fmt.Errorf("FREE_DAILY_LIMIT must be positive")
	}

	if c.PremiumDailyLimit <= c.FreeDailyLimit {
		return fmt.Errorf("PREMIUM_DAILY_LIMIT (%d) must be greater than FREE_DAILY_LIMIT (%d)", c.PremiumDailyLimit, c.FreeDailyLimit)
	}

	if c.LedgerMaxAttempts < 1 {
		return fmt.Errorf("LEDGER_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func intVar(getenv func(string) string, key string, fallback int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return val, nil
}

func durationVar(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	return val, nil
}

func boolVar(getenv func(string) string, key string) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return false, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return val, nil
}

// splits a comma-separated list, dropping blanks
func listVar(getenv func(string) string, key string) []string {
	var out []string

	for _, item := range strings.Split(getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

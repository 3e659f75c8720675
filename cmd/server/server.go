package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/internal/config"
	"codeberg.org/vyra/server/internal/database"
	"codeberg.org/vyra/server/internal/logger"
	"codeberg.org/vyra/server/internal/metrics"
	"codeberg.org/vyra/server/internal/ratelimit"
	"codeberg.org/vyra/server/vyra/ledger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// how long startup waits for optional backends before moving on
const startupProbeTimeout = 5 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.NewCollector()

	server := &Server{
		config:  cfg,
		metrics: collector,
		authn:   auth.New(cfg.JWTSecret),
	}

	if err := server.initLedgerStore(ctx); err != nil {
		return nil, err
	}

	server.redis = connectRedis(ctx, cfg.RedisURL)

	limiter, err := ratelimit.New(cfg.RateLimit, server.redis)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	server.limiter = limiter
	server.services = InitializeServices(cfg, server.store, collector)

	logger.Info("server initialized",
		"ledger_backend", cfg.LedgerBackend,
		"rate_limit_backend", limiter.Backend(),
		"trust_client_tier", cfg.TrustClientTier,
		"free_daily_limit", cfg.FreeDailyLimit,
		"premium_daily_limit", cfg.PremiumDailyLimit,
	)

	server.router = gin.New()
	server.router.Use(gin.Recovery())

	RegisterRoutes(server.router, server)

	return server, nil
}

// selects and prepares the ledger backend
func (s *Server) initLedgerStore(ctx context.Context) error {
	if s.config.LedgerBackend == config.LedgerBackendMemory {
		logger.Warn("using in-memory ledger, quota state is lost on restart")
		s.store = ledger.NewMemoryStore()
		return nil
	}

	if s.config.MigrateOnStart {
		if err := migrateUp(s.config.DatabaseURL); err != nil {
			return err
		}
	}

	poolConfig := database.DefaultPoolConfig()
	poolConfig.SimpleProtocol = s.config.DatabaseSimpleProtocol

	s.db = database.NewLazyPool(s.config.DatabaseURL, poolConfig)

	// warm the pool; a failure here is retried on first use
	probeCtx, cancel := context.WithTimeout(ctx, startupProbeTimeout)
	defer cancel()

	if err := s.db.Ping(probeCtx); err != nil {
		logger.Warn("database not reachable at startup, will retry on first request", "error", err)
	}

	collector := s.metrics
	s.store = ledger.NewPostgresStore(s.db,
		ledger.WithMaxAttempts(s.config.LedgerMaxAttempts),
		ledger.WithRetryHook(func(attempt int, err error) {
			collector.RecordLedgerRetry()
			logger.Debug("ledger transaction retry", "attempt", attempt, "error", err)
		}),
	)

	return nil
}

func migrateUp(databaseURL string) error {
	migrator, err := database.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // best-effort cleanup

	if err := migrator.Up(); err != nil {
		return err
	}

	return nil
}

// redis is optional; without it the rate limiter keeps per-process counters
func connectRedis(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	client, err := ratelimit.NewRedisClient(ctx, redisURL)
	if err != nil {
		logger.ErrorErr(err, "failed to connect to redis, continuing with in-memory rate limiting")
		return nil
	}

	return client
}

// releases backend connections
func (s *Server) Close() {
	if s.redis != nil {
		s.redis.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}

	if s.db != nil {
		s.db.Close()
	}
}

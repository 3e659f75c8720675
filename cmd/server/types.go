package main

import (
	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/internal/config"
	"codeberg.org/vyra/server/internal/database"
	"codeberg.org/vyra/server/internal/metrics"
	"codeberg.org/vyra/server/internal/pipeline"
	"codeberg.org/vyra/server/internal/ratelimit"
	"codeberg.org/vyra/server/vyra/ledger"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// both ledger backends implement it
type ledgerStore interface {
	ledger.Store
	ledger.HistoryLister
}

// holds all dependencies and state for the API server
type Server struct {
	config  *config.Config
	db      *database.LazyPool // nil with the memory backend
	redis   *redis.Client      // nil without REDIS_URL
	metrics *metrics.Collector
	authn   *auth.Authenticator
	limiter *ratelimit.Limiter
	store   ledgerStore
	router  *gin.Engine

	services *Services
}

// holds the generation flow and its provider clients
type Services struct {
	Gate     *usage.Gate
	Pipeline *pipeline.Pipeline
}

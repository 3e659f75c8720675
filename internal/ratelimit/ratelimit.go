package ratelimit

import (
	"fmt"

	apierrors "codeberg.org/vyra/server/internal/errors"
	"codeberg.org/vyra/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	keyPrefix     = "vyra:ratelimit"
	storeMaxRetry = 3
)

// per-caller request throttle in front of the API
type Limiter struct {
	limiter *limiter.Limiter
	backend string
}

// creates a limiter backed by Redis when a client is given, memory otherwise
func New(formattedRate string, client *redis.Client) (*Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formattedRate, err)
	}

	if client == nil {
		store := memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
		return &Limiter{limiter: limiter.New(store, rate), backend: "memory"}, nil
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: storeMaxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}

	return &Limiter{limiter: limiter.New(store, rate), backend: "redis"}, nil
}

func (l *Limiter) Backend() string {
	return l.backend
}

// throttles by authenticated user id, falling back to client IP
func (l *Limiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.limiter,
		mgin.WithKeyGetter(keyFor),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apierrors.TooManyRequests(c)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// fail open, the daily quota still bounds spend
			logger.ErrorErr(err, "rate limiter store failed", "path", c.Request.URL.Path)
			c.Next()
		}),
	)
}

func keyFor(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}

	return "ip:" + c.ClientIP()
}

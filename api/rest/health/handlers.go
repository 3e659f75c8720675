package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/vyra/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName = "vyra"
	version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

// checks the ledger's backing store; *database.LazyPool implements it
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler godoc
// @Summary Health check
// @Description Reports service health and, when a database backs the ledger, its reachability
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(backend string, db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Ledger:  backend,
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Warn("health check: ledger store unreachable", "error", err)
				resp.Status = "degraded"
				c.JSON(http.StatusServiceUnavailable, resp)
				return
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// PingHandler godoc
// @Summary Ping
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /api/v1/ping [get]
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}

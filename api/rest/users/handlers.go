package users

import (
	"net/http"
	"time"

	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/internal/errors"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/gin-gonic/gin"
)

// *usage.Gate implements it
type LimitResolver interface {
	ResolveTier(stored, declared usage.Tier) usage.Tier
	Limit(tier usage.Tier) int
}

// GetUsage godoc
// @Summary Get user's usage statistics
// @Description Returns today's generation count, the daily limit and lifetime totals for the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} UsageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/users/usage [get]
// @Security BearerAuth
func GetUsage(reader usage.Reader, limits LimitResolver, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthenticated(c, "user not authenticated")
			return
		}

		rec, err := reader.GetUsage(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to fetch usage data", err)
			return
		}

		today := usage.Day(now())
		tier := limits.ResolveTier(rec.Tier, usage.TierFree)
		limit := limits.Limit(tier)
		count := rec.EffectiveCount(today)

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}

		c.JSON(http.StatusOK, UsageResponse{
			Tier:             string(tier),
			Today:            count,
			Limit:            limit,
			Remaining:        remaining,
			TotalGenerations: rec.TotalGenerations,
			XP:               rec.XP,
			Date:             today,
		})
	}
}

package generations

import (
	"net/http"
	"strconv"

	"codeberg.org/vyra/server/api/rest/pagination"
	"codeberg.org/vyra/server/internal/auth"
	"codeberg.org/vyra/server/internal/errors"
	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/ledger"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// ListHandler godoc
// @Summary List the caller's generations
// @Description Returns the authenticated user's generation history, newest first
// @Tags generations
// @Produce json
// @Param limit query int false "Page size (max 50)"
// @Param offset query int false "Records to skip"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/generations [get]
// @Security BearerAuth
func ListHandler(lister ledger.HistoryLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthenticated(c, "user not authenticated")
			return
		}

		params := pagination.DefaultParams(
			queryInt(c, "limit"),
			queryInt(c, "offset"),
			defaultPageSize,
			maxPageSize,
		)

		records, total, err := lister.ListByUser(c.Request.Context(), userID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list generations", err)
			return
		}

		if records == nil {
			records = []generations.Record{}
		}

		c.JSON(http.StatusOK, ListResponse{
			Generations: records,
			Pagination:  pagination.NewMeta(params, total),
		})
	}
}

// unparseable values read as zero so defaults apply
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}

	return v
}

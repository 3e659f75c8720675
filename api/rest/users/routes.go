package users

import (
	"time"

	"codeberg.org/vyra/server/vyra/usage"
	"github.com/gin-gonic/gin"
)

// registers user routes; the group must already require auth
func RegisterRoutes(rg *gin.RouterGroup, reader usage.Reader, limits LimitResolver, now func() time.Time) {
	users := rg.Group("/users")

	users.GET("/usage", GetUsage(reader, limits, now))
}

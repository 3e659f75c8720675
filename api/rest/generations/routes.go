package generations

import (
	"codeberg.org/vyra/server/vyra/ledger"
	"github.com/gin-gonic/gin"
)

// registers history routes; the group must already require auth
func RegisterRoutes(router *gin.RouterGroup, lister ledger.HistoryLister) {
	router.GET("/generations", ListHandler(lister))
}

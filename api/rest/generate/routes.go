package generate

import "github.com/gin-gonic/gin"

// registers image generation routes; the group must already require auth
func RegisterRoutes(router *gin.RouterGroup, p Generator) {
	router.POST("/generate", Handler(p))
}

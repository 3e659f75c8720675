package main

import (
	"net/http"
	"time"

	"codeberg.org/vyra/server/api/rest/generate"
	"codeberg.org/vyra/server/api/rest/generations"
	"codeberg.org/vyra/server/api/rest/health"
	"codeberg.org/vyra/server/api/rest/users"
	_ "codeberg.org/vyra/server/docs" // registers the swagger document
	"codeberg.org/vyra/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(RequestLogger())
	router.Use(CORSMiddleware(server.config.AllowedOrigins))
	router.Use(server.metrics.Middleware())

	var pinger health.Pinger
	if server.db != nil {
		pinger = server.db
	}

	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, "route")
	})

	router.GET("/health", health.Handler(server.config.LedgerBackend, pinger))
	router.GET("/metrics", gin.WrapH(server.metrics.Handler()))
	router.GET("/api/docs/swagger.json", SwaggerHandler)

	v1 := router.Group("/api/v1")
	v1.GET("/ping", health.PingHandler)

	authed := v1.Group("")
	authed.Use(server.authn.Middleware(), server.limiter.Middleware())
	{
		generate.RegisterRoutes(authed, server.services.Pipeline)
		generations.RegisterRoutes(authed, server.store)
		users.RegisterRoutes(authed, server.store, server.services.Gate, time.Now)
	}
}

// serves the registered swagger document
func SwaggerHandler(c *gin.Context) {
	doc, err := swag.ReadDoc()
	if err != nil {
		errors.InternalError(c, "failed to read api docs", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logo-generator/internal/config"
	"github.com/fleveque/logo-generator/internal/handler"
	"github.com/fleveque/logo-generator/internal/metrics"
	"github.com/fleveque/logo-generator/internal/middleware"
	"github.com/fleveque/logo-generator/internal/service"
)

// Deps holds what the routes need beyond configuration.
// Metrics is nil when metrics are disabled.
type Deps struct {
	Generator *service.Generator
	Metrics   *metrics.Manager
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Dependencies are passed explicitly; each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	generateHandler := handler.NewGenerateHandler(deps.Generator, logger)

	// Health is never throttled and needs no CORS.
	r.GET("/health", healthHandler.Health)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// OPTIONS is registered explicitly so browser preflights reach the CORS
	// middleware instead of falling through to 404/405.
	generate := r.Group("/generate")
	generate.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	generate.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		generate.POST("", generateHandler.Generate)
		generate.OPTIONS("", func(c *gin.Context) {})
	}
}

package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubase/house-enrolment/internal/config"
	"github.com/edubase/house-enrolment/internal/handler"
	"github.com/edubase/house-enrolment/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterEnrolment registers the enrolment API under /v1. All routes sit
// behind JWT validation of the identity provider's tokens. Roster reads
// additionally go through the Redis response cache; the enrolment write
// goes through the rate limiter because it consumes shared mastercode
// capacity.
func RegisterEnrolment(e *echo.Echo, h *handler.EnrolmentHandler, jwtSecret string, rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	cached := middleware.NewResponseCache(cacheCfg, rdb)
	limited := middleware.NewTokenBucket(rlCfg, rdb)

	g.GET("/houses/:id/users", h.Index, cached)
	g.GET("/houses/:id/enrolled", h.Show, cached)
	g.POST("/houses/:id/enrolments", h.Store, limited)
	g.PUT("/houses/:id/users/:user_id", h.Update)
	g.DELETE("/houses/:id/users/:user_id", h.Destroy)
}

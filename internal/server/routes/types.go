package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/handlers"
)

// Handlers contains all the route handlers
type Handlers struct {
	Pages   *handlers.PageHandler
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}

// Middleware contains the per-route middleware
type Middleware struct {
	FormLimit       gin.HandlerFunc
	ValidateContact gin.HandlerFunc
}

// GlobalMiddleware is applied to every request, in field order
type GlobalMiddleware struct {
	Recovery  gin.HandlerFunc
	RequestID gin.HandlerFunc
	Tracing   gin.HandlerFunc
	Logger    gin.HandlerFunc
	Security  gin.HandlerFunc
	Sessions  gin.HandlerFunc
	RateLimit gin.HandlerFunc
	BodyLimit gin.HandlerFunc
	CSRF      gin.HandlerFunc
}

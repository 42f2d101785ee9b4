package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/handlers"
)

// SetupContactRoutes configures the form endpoints. Each has its own form
// rate limit budget per client.
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler, m *Middleware) {
	router.POST("/", m.FormLimit, contact.SubmitHome)
	router.POST("/contact", m.FormLimit, m.ValidateContact, contact.SubmitContact)
}

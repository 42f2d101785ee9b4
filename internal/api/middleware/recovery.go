package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/logging"
)

// Recovery turns a handler panic into a 500 page and an error log line
func Recovery(logger *logging.Logger, reject RejectFunc) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic serving %s %s (request %s): %v",
			c.Request.Method, c.Request.URL.Path, c.GetString(constants.ContextKeyRequestID), recovered)
		reject(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}

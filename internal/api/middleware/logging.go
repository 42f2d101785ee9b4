package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/utils"
)

// RequestLogger writes one access line per request when request logging is enabled
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	if !logger.RequestsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}

package utils

import (
	"github.com/gin-gonic/gin"
)

// RemoteIPHeaders are consulted, in order, for requests arriving from a
// trusted proxy. The server registers them on the gin engine.
var RemoteIPHeaders = []string{"X-Real-IP", "X-Forwarded-For"}

// GetRealIP returns the client IP used for rate limiting and audit logs.
// Forwarding headers only count when the peer is a trusted proxy, so a
// client cannot pick its own rate limit bucket.
func GetRealIP(c *gin.Context) string {
	return c.ClientIP()
}

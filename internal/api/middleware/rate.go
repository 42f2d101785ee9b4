package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/ratelimit"
	"github.com/vulcanent/vulcanweb/internal/service"
	"github.com/vulcanent/vulcanweb/internal/utils"
)

// RateLimitMessage is shown to clients that exceeded a limit
const RateLimitMessage = "Too many requests. Please try again later."

// RateLimitMiddleware applies limiter per client IP to every request whose
// path does not start with one of the exempt prefixes.
func RateLimitMiddleware(limiter *ratelimit.Keyed, exempt []string, audit *service.AuditService, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range exempt {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				c.Next()
				return
			}
		}

		if !checkLimit(c, limiter, utils.GetRealIP(c), audit, reject) {
			return
		}
		c.Next()
	}
}

// RouteRateLimit applies limiter per client IP and route. It is attached to
// individual routes, so each route keeps its own budget.
func RouteRateLimit(limiter *ratelimit.Keyed, audit *service.AuditService, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := utils.GetRealIP(c) + "|" + c.Request.Method + " " + c.FullPath()
		if !checkLimit(c, limiter, key, audit, reject) {
			return
		}
		c.Next()
	}
}

func checkLimit(c *gin.Context, limiter *ratelimit.Keyed, key string, audit *service.AuditService, reject RejectFunc) bool {
	result := limiter.Allow(key)

	if result.Limit.Count > 0 {
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit.Count))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	}

	if result.Allowed {
		return true
	}

	retry := int(math.Ceil(result.RetryAfter.Seconds()))
	c.Header("Retry-After", strconv.Itoa(retry))
	c.Header("X-RateLimit-Reset", time.Now().Add(result.RetryAfter).UTC().Format(http.TimeFormat))

	audit.LogRejected(c.Request.Context(), service.AuditEventRateLimited, utils.GetRealIP(c), c.Request.URL.Path, result.Limit.String())
	reject(c, http.StatusTooManyRequests, RateLimitMessage)
	c.Abort()
	return false
}

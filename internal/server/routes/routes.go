package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/logging"
)

// Setup configures all routes
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetGlobalLogger()

	SetupStaticRoutes(router)
	SetupHealthRoutes(router, h.Health)
	SetupPageRoutes(router, h.Pages)
	SetupContactRoutes(router, h.Contact, m)

	router.NoRoute(h.Pages.NotFound)

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, g GlobalMiddleware) {
	for _, mw := range []gin.HandlerFunc{
		g.Recovery,
		g.RequestID,
		g.Tracing,
		g.Logger,
		g.Security,
		g.Sessions,
		g.RateLimit,
		g.BodyLimit,
		g.CSRF,
	} {
		if mw != nil {
			router.Use(mw)
		}
	}
}

// TrimTrailingSlash removes a trailing slash before routing, so /team/ and
// /team are the same page.
func TrimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" && strings.HasSuffix(path, "/") && !strings.HasPrefix(path, "/static/") {
			r.URL.Path = strings.TrimRight(path, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}

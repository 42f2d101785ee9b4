package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/api/handlers"
	"github.com/vulcanent/vulcanweb/internal/api/middleware"
	"github.com/vulcanent/vulcanweb/internal/api/validation"
	"github.com/vulcanent/vulcanweb/internal/config"
	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/ratelimit"
	"github.com/vulcanent/vulcanweb/internal/server/routes"
	"github.com/vulcanent/vulcanweb/internal/service"
	"github.com/vulcanent/vulcanweb/internal/telemetry"
	"github.com/vulcanent/vulcanweb/internal/utils"
	"github.com/vulcanent/vulcanweb/internal/web"
)

const shutdownTimeout = 10 * time.Second

// Paths the default rate limit does not apply to
var rateLimitExempt = []string{"/static", "/health"}

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	handler http.Handler
	logger  *logging.Logger

	defaultLimiter *ratelimit.Keyed
	formLimiter    *ratelimit.Keyed
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Site == nil || deps.Mailer == nil {
		return nil, errors.New("server: site content and mailer are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	router := gin.New()
	router.RemoteIPHeaders = utils.RemoteIPHeaders
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	router.HTMLRender = renderer

	// Services
	csrfService := service.NewCSRFService(cfg.SecretKey, cfg.CSRFTimeLimit)
	auditService := service.NewAuditService(logger)
	submissionService := service.NewSubmissionService(deps.Mailer, deps.Archive, auditService)

	// Handlers
	h := &routes.Handlers{
		Pages:   handlers.NewPageHandler(deps.Site),
		Contact: handlers.NewContactHandler(submissionService),
		Health:  handlers.NewHealthHandler(submissionService),
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
	}
	if cfg.RateLimitEnabled {
		s.defaultLimiter = ratelimit.NewKeyed(cfg.DefaultLimits())
		s.formLimiter = ratelimit.NewKeyed(cfg.FormLimits())
	} else {
		s.defaultLimiter = ratelimit.NewKeyed(nil)
		s.formLimiter = ratelimit.NewKeyed(nil)
	}

	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     constants.CookiePathRoot,
		MaxAge:   int(constants.CookieDurationWeek.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	routes.SetupGlobalMiddleware(router, routes.GlobalMiddleware{
		Recovery:  middleware.Recovery(logger, h.Pages.RenderError),
		RequestID: middleware.RequestID(),
		Tracing:   otelgin.Middleware(telemetry.ServiceName),
		Logger:    middleware.RequestLogger(logger),
		Security:  middleware.SecurityHeaders(cfg.IsProduction() && cfg.SessionCookieSecure),
		Sessions:  sessions.Sessions(constants.CookieSession, store),
		RateLimit: middleware.RateLimitMiddleware(s.defaultLimiter, rateLimitExempt, auditService, h.Pages.RateLimited),
		BodyLimit: middleware.LimitBody(middleware.MaxFormBytes, h.Pages.RenderError),
		CSRF:      middleware.CSRFMiddleware(csrfService, auditService, h.Pages.CSRFRejected),
	})

	routes.Setup(router, h, &routes.Middleware{
		FormLimit:       middleware.RouteRateLimit(s.formLimiter, auditService, h.Pages.RateLimited),
		ValidateContact: middleware.ValidateContactRequest(h.Contact.InvalidForm),
	})

	s.handler = routes.TrimTrailingSlash(router)
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Limiters returns the keyed limiters so idle buckets can be swept
func (s *Server) Limiters() []*ratelimit.Keyed {
	return []*ratelimit.Keyed{s.defaultLimiter, s.formLimiter}
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

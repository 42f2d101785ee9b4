package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/service"
	"github.com/vulcanent/vulcanweb/internal/utils"
)

// CSRFMiddleware checks the CSRF token on unsafe methods and exposes a fresh
// signed token to the templates on every request.
func CSRFMiddleware(csrfService service.CSRFService, audit *service.AuditService, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw, _ := session.Get(constants.SessionKeyCSRF).(string)

		if !isSafeMethod(c.Request.Method) {
			if err := csrfService.ValidateToken(raw, submittedCSRFToken(c)); err != nil {
				audit.LogRejected(c.Request.Context(), service.AuditEventCSRFRejected, utils.GetRealIP(c), c.Request.URL.Path, err.Error())
				reject(c, http.StatusBadRequest, err.Error())
				c.Abort()
				return
			}
		}

		if raw == "" {
			var err error
			raw, err = csrfService.NewSessionToken()
			if err != nil {
				utils.LogError(err, "Failed to generate CSRF token")
				reject(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			session.Set(constants.SessionKeyCSRF, raw)
			if err := session.Save(); err != nil {
				utils.LogError(err, "Failed to save session")
			}
		}

		c.Set(constants.ContextKeyCSRFToken, csrfService.GenerateToken(raw))
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// submittedCSRFToken reads the token from the form body or either header
func submittedCSRFToken(c *gin.Context) string {
	if token := c.PostForm(constants.FormFieldCSRF); token != "" {
		return token
	}
	if token := c.GetHeader(constants.HeaderCSRFAlt); token != "" {
		return token
	}
	return c.GetHeader(constants.HeaderCSRF)
}

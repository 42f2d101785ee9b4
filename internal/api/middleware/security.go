package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self'; img-src 'self' data:; font-src 'self'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'"

// SecurityHeaders adds the standard browser protection headers. HSTS and the
// HTTPS redirect are only enabled when the app itself terminates TLS.
func SecurityHeaders(https bool) gin.HandlerFunc {
	config := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	}

	if https {
		config.SSLRedirect = true
		config.STSSeconds = 31536000
		config.STSIncludeSubdomains = true
		config.SSLProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
	}

	secured := secure.New(config)
	return func(c *gin.Context) {
		c.Header("Permissions-Policy", "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()")
		secured(c)
	}
}

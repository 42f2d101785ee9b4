package constants

import "time"

// Session cookie and the keys stored in it
const (
	CookieSession = "vulcan_session"

	SessionKeyCSRF = "csrf_raw"

	CookiePathRoot = "/"

	// Browser session lifetime; CSRF tokens expire on their own schedule
	CookieDurationWeek = 7 * 24 * time.Hour
)

// Request headers and form fields
const (
	HeaderCSRF          = "X-CSRF-Token"
	HeaderCSRFAlt       = "X-CSRFToken"
	HeaderRequestID     = "X-Request-ID"
	HeaderRequestedWith = "X-Requested-With"

	FormFieldCSRF = "csrf_token"
)

// Flash categories understood by the templates
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

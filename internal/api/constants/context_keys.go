package constants

// Context keys for values shared between middleware and handlers
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyCSRFToken = "csrfToken"

	// Set by the contact form validation middleware
	ContextKeyContact = "contact"
)

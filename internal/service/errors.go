package service

import "errors"

// Sentinel errors for service layer
var (
	ErrMailNotConfigured = errors.New("mail sender or recipient not configured")
	ErrInvalidSubmission = errors.New("invalid submission")

	ErrCSRFMissing = errors.New("The CSRF token is missing.")
	ErrCSRFInvalid = errors.New("The CSRF token is invalid.")
	ErrCSRFExpired = errors.New("The CSRF token has expired.")
)

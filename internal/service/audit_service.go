package service

import (
	"context"

	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/models"
)

// AuditEventType represents the type of audit event
type AuditEventType string

const (
	AuditEventSubmissionSent     AuditEventType = "SUBMISSION_SENT"
	AuditEventSubmissionFailed   AuditEventType = "SUBMISSION_FAILED"
	AuditEventSubmissionRejected AuditEventType = "SUBMISSION_REJECTED"
	AuditEventCSRFRejected       AuditEventType = "CSRF_REJECTED"
	AuditEventRateLimited        AuditEventType = "RATE_LIMITED"
)

// AuditService writes one log line per form event
type AuditService struct {
	logger *logging.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(logger *logging.Logger) *AuditService {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &AuditService{logger: logger}
}

// LogSubmission records the outcome of a delivered or failed submission.
// The message text is never logged.
func (s *AuditService) LogSubmission(ctx context.Context, sub *models.Submission) {
	if sub.Delivered {
		s.logger.Info(
			"[AUDIT] %s | Kind: %s | Email: %s | IP: %s",
			AuditEventSubmissionSent, sub.Kind, sub.Email, sub.IPAddress,
		)
		return
	}

	s.logger.Warn(
		"[AUDIT] %s | Kind: %s | Email: %s | IP: %s | Error: %s",
		AuditEventSubmissionFailed, sub.Kind, sub.Email, sub.IPAddress, sub.DeliveryError,
	)
}

// LogRejected records a request refused before any mail was sent
func (s *AuditService) LogRejected(ctx context.Context, eventType AuditEventType, ip, path, reason string) {
	s.logger.Warn(
		"[AUDIT] %s | IP: %s | Path: %s | Reason: %s",
		eventType, ip, path, reason,
	)
}

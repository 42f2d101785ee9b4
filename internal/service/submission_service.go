package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vulcanent/vulcanweb/internal/api/dto/v1/contact"
	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/models"
	"github.com/vulcanent/vulcanweb/internal/repository"
)

// Origin describes where a submission came from
type Origin struct {
	IP        string
	UserAgent string
	Referrer  string
	Path      string
}

// SubmissionService forwards form posts by email and archives them
type SubmissionService struct {
	mailer Mailer
	repo   repository.SubmissionRepository
	audit  *AuditService
	logger *logging.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(mailer Mailer, repo repository.SubmissionRepository, audit *AuditService) *SubmissionService {
	if repo == nil {
		repo = repository.NewNoopSubmissionRepository()
	}
	if audit == nil {
		audit = NewAuditService(nil)
	}
	return &SubmissionService{
		mailer: mailer,
		repo:   repo,
		audit:  audit,
		logger: logging.GetGlobalLogger(),
	}
}

// SubmitContact emails a contact form to the site owner
func (s *SubmissionService) SubmitContact(ctx context.Context, form *contact.ContactRequest, origin Origin) error {
	if form == nil || blank(form.FirstName, form.LastName, form.Email, form.Message) {
		return s.reject(ctx, models.SubmissionContact, origin)
	}
	sub := &models.Submission{
		Kind:      models.SubmissionContact,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Message:   form.Message,
	}
	return s.submit(ctx, sub, ContactEmail(form), origin)
}

// SubmitNewsletter emails a newsletter sign-up to the site owner
func (s *SubmissionService) SubmitNewsletter(ctx context.Context, form *contact.NewsletterRequest, origin Origin) error {
	if form == nil || blank(form.Email) {
		return s.reject(ctx, models.SubmissionNewsletter, origin)
	}
	sub := &models.Submission{
		Kind:  models.SubmissionNewsletter,
		Email: form.Email,
	}
	return s.submit(ctx, sub, NewsletterEmail(form.Email), origin)
}

// ArchiveEnabled reports whether submissions are persisted
func (s *SubmissionService) ArchiveEnabled() bool {
	return s.repo.Enabled()
}

// reject refuses a submission missing a required field. Handlers bind and
// validate first, so this only trips for callers that skipped binding.
func (s *SubmissionService) reject(ctx context.Context, kind models.SubmissionKind, origin Origin) error {
	s.audit.LogRejected(ctx, AuditEventSubmissionRejected, origin.IP, origin.Path, "missing required field")
	return fmt.Errorf("%w: %s form is missing a required field", ErrInvalidSubmission, kind)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (s *SubmissionService) submit(ctx context.Context, sub *models.Submission, email Email, origin Origin) error {
	sub.IPAddress = origin.IP
	sub.UserAgent = origin.UserAgent
	sub.Referrer = origin.Referrer

	sendErr := s.mailer.Send(ctx, email)
	sub.Delivered = sendErr == nil
	if sendErr != nil {
		sub.DeliveryError = sendErr.Error()
	}

	s.audit.LogSubmission(ctx, sub)

	// Archive even when the request was cancelled mid-send
	if err := s.repo.Create(context.WithoutCancel(ctx), sub); err != nil {
		s.logger.Error("Failed to archive %s submission: %v", sub.Kind, err)
	}

	return sendErr
}

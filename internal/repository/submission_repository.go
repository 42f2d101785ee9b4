package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vulcanent/vulcanweb/internal/models"
)

// submissionRepository implements SubmissionRepository on Postgres
type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new SubmissionRepository instance
func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

const insertSubmission = `
INSERT INTO submissions
	(kind, first_name, last_name, email, message, ip_address, user_agent, referrer, delivered, delivery_error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`

// Create inserts a submission row
func (r *submissionRepository) Create(ctx context.Context, s *models.Submission) error {
	err := r.db.QueryRowContext(ctx, insertSubmission,
		string(s.Kind), s.FirstName, s.LastName, s.Email, s.Message,
		s.IPAddress, s.UserAgent, s.Referrer, s.Delivered, s.DeliveryError,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to archive submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) Enabled() bool { return true }

// noopSubmissionRepository drops submissions when no database is configured
type noopSubmissionRepository struct{}

// NewNoopSubmissionRepository returns a repository that stores nothing
func NewNoopSubmissionRepository() SubmissionRepository {
	return noopSubmissionRepository{}
}

func (noopSubmissionRepository) Create(context.Context, *models.Submission) error { return nil }

func (noopSubmissionRepository) Enabled() bool { return false }

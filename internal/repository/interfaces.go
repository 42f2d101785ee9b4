package repository

import (
	"context"

	"github.com/vulcanent/vulcanweb/internal/models"
)

// SubmissionRepository defines the interface for archiving form submissions
type SubmissionRepository interface {
	// Create stores a submission and fills in its ID and CreatedAt
	Create(ctx context.Context, submission *models.Submission) error
	// Enabled reports whether submissions are actually persisted
	Enabled() bool
}

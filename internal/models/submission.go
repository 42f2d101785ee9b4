package models

import "time"

// SubmissionKind tells contact messages and newsletter sign-ups apart
type SubmissionKind string

const (
	SubmissionContact    SubmissionKind = "contact"
	SubmissionNewsletter SubmissionKind = "newsletter"
)

// Submission is one form post as archived after delivery was attempted
type Submission struct {
	ID            int64
	Kind          SubmissionKind
	FirstName     string
	LastName      string
	Email         string
	Message       string
	IPAddress     string
	UserAgent     string
	Referrer      string
	Delivered     bool
	DeliveryError string
	CreatedAt     time.Time
}

// FullName joins first and last name the way the notification email does
func (s *Submission) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

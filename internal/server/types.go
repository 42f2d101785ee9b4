package server

import (
	"github.com/vulcanent/vulcanweb/internal/content"
	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/repository"
	"github.com/vulcanent/vulcanweb/internal/service"
)

// Dependencies holds the collaborators the server is built from
type Dependencies struct {
	Site    *content.Site
	Mailer  service.Mailer
	Archive repository.SubmissionRepository
	Logger  *logging.Logger
}

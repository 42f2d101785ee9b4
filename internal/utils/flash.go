package utils

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/logging"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string
	Message  string
}

// AddFlash queues a message in the session
func AddFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(category + ":" + message)
	if err := session.Save(); err != nil {
		logging.GetGlobalLogger().Error("Failed to save flash message: %v", err)
	}
}

// PopFlashes returns and clears the queued messages, oldest first
func PopFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		logging.GetGlobalLogger().Error("Failed to clear flash messages: %v", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		category, message, found := strings.Cut(s, ":")
		if !found {
			category, message = "info", s
		}
		flashes = append(flashes, Flash{Category: category, Message: message})
	}
	return flashes
}

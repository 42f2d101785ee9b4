package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
)

// IsXHR reports whether the request was sent by the site's fetch/XHR script
func IsXHR(c *gin.Context) bool {
	return c.GetHeader(constants.HeaderRequestedWith) == "XMLHttpRequest"
}

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
)

// HandleSuccess sends a success response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data))
}

// HandleMessage sends a success response with just a message
func HandleMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewMessageResponse(message))
}

// HandleValidationError sends a 400 listing the offending fields
func HandleValidationError(c *gin.Context, message string, errs []common.ValidationError) {
	c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrCodeValidation, message, errs))
}

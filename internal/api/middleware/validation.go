package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
	"github.com/vulcanent/vulcanweb/internal/api/validation"
)

// InvalidFormFunc responds to a form that failed validation
type InvalidFormFunc func(c *gin.Context, errs []common.ValidationError)

// ValidateContactRequest binds the contact form and stores it under
// constants.ContextKeyContact for the handler.
func ValidateContactRequest(onInvalid InvalidFormFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := validation.BindContact(c)
		if err != nil {
			onInvalid(c, validation.FormatValidationError(err))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyContact, req)
		c.Next()
	}
}

package validation

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/vulcanent/vulcanweb/internal/api/dto/v1/contact"
	"github.com/vulcanent/vulcanweb/internal/api/sanitization"
)

// BindContact binds, validates and normalizes a contact form. Values are
// validated again after normalization so whitespace-only fields fail.
func BindContact(c *gin.Context) (*contact.ContactRequest, error) {
	var req contact.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, err
	}

	req.FirstName = sanitization.SanitizeString(req.FirstName)
	req.LastName = sanitization.SanitizeString(req.LastName)
	req.Email = sanitization.SanitizeEmail(req.Email)
	req.Message = sanitization.SanitizeMessage(req.Message)

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BindNewsletter binds, validates and normalizes a newsletter sign-up
func BindNewsletter(c *gin.Context) (*contact.NewsletterRequest, error) {
	var req contact.NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, err
	}

	req.Email = sanitization.SanitizeEmail(req.Email)

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

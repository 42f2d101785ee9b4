package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
)

// Same shape the browser script checks before submitting
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("email", validateEmail); err != nil {
		return err
	}
	return v.RegisterValidation("singleline", validateSingleLine)
}

// RegisterWithGin installs the custom validators on gin's binding engine
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return RegisterValidators(v)
}

// validateEmail checks if the email is valid
func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// validateSingleLine rejects values that could break out of an email header
func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

// FormatValidationError formats validation errors into a user-friendly response
func FormatValidationError(err error) []common.ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []common.ValidationError{{Field: "form", Message: "could not read form"}}
	}

	out := make([]common.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, common.ValidationError{
			Field:   e.Field(),
			Message: messageFor(e),
		})
	}
	return out
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "singleline":
		return "Must be a single line."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", e.Param())
	default:
		return "Invalid value."
	}
}

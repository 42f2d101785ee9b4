package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulcanent/vulcanweb/internal/api/dto/v1/contact"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidators(v))
	return v
}

func TestContactRequestValidation(t *testing.T) {
	v := newValidator(t)
	valid := contact.ContactRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Message:   "Hello",
	}

	tests := []struct {
		name   string
		mutate func(*contact.ContactRequest)
		field  string
	}{
		{"valid", func(*contact.ContactRequest) {}, ""},
		{"missing first name", func(r *contact.ContactRequest) { r.FirstName = "" }, "FirstName"},
		{"newline in last name", func(r *contact.ContactRequest) { r.LastName = "Love\nlace" }, "LastName"},
		{"bad email", func(r *contact.ContactRequest) { r.Email = "ada@example" }, "Email"},
		{"space in email", func(r *contact.ContactRequest) { r.Email = "a da@example.com" }, "Email"},
		{"missing message", func(r *contact.ContactRequest) { r.Message = "" }, "Message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := v.Struct(req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs := FormatValidationError(err)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestNewsletterRequestValidation(t *testing.T) {
	v := newValidator(t)
	assert.NoError(t, v.Struct(contact.NewsletterRequest{Email: "reader@example.com"}))
	assert.Error(t, v.Struct(contact.NewsletterRequest{Email: ""}))
	assert.Error(t, v.Struct(contact.NewsletterRequest{Email: "not-an-email"}))
}

func TestFormatNonValidationError(t *testing.T) {
	errs := FormatValidationError(assert.AnError)
	require.Len(t, errs, 1)
	assert.Equal(t, "form", errs[0].Field)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
	"github.com/vulcanent/vulcanweb/internal/api/dto/v1/contact"
	"github.com/vulcanent/vulcanweb/internal/api/validation"
	"github.com/vulcanent/vulcanweb/internal/service"
	"github.com/vulcanent/vulcanweb/internal/utils"
)

// Messages flashed after a form post
const (
	MsgContactSent       = "Your message has been sent. Thank you!"
	MsgContactFailed     = "There was an error sending your message. Please try again later."
	MsgNewsletterSent    = "Thank you for subscribing to our newsletter!"
	MsgNewsletterFailed  = "There was an error processing your subscription. Please try again later."
	MsgInvalidForm       = "Please check the form and try again."
	msgUnrecognizedForm  = "Unrecognized form submission."
	maxMultipartFormSize = 1 << 20
)

type submitter interface {
	SubmitContact(ctx context.Context, form *contact.ContactRequest, origin service.Origin) error
	SubmitNewsletter(ctx context.Context, form *contact.NewsletterRequest, origin service.Origin) error
}

type ContactHandler struct {
	submissions submitter
}

func NewContactHandler(submissions submitter) *ContactHandler {
	return &ContactHandler{submissions: submissions}
}

type formKind int

const (
	formUnknown formKind = iota
	formContact
	formNewsletter
)

// classifyForm decides what the home page form post is from its field names
func classifyForm(fields []string) formKind {
	hasEmail := false
	others := 0
	for _, f := range fields {
		switch f {
		case "message":
			return formContact
		case "email":
			hasEmail = true
		case constants.FormFieldCSRF:
		default:
			others++
		}
	}
	if hasEmail && others == 0 {
		return formNewsletter
	}
	return formUnknown
}

func postedFields(c *gin.Context) []string {
	if err := c.Request.ParseMultipartForm(maxMultipartFormSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	fields := make([]string, 0, len(c.Request.PostForm))
	for name := range c.Request.PostForm {
		fields = append(fields, name)
	}
	return fields
}

// SubmitHome handles both forms on the home page, which share one URL
func (h *ContactHandler) SubmitHome(c *gin.Context) {
	switch classifyForm(postedFields(c)) {
	case formContact:
		form, err := validation.BindContact(c)
		if err != nil {
			h.InvalidForm(c, validation.FormatValidationError(err))
			return
		}
		h.sendContact(c, form)
	case formNewsletter:
		form, err := validation.BindNewsletter(c)
		if err != nil {
			h.InvalidForm(c, validation.FormatValidationError(err))
			return
		}
		h.sendNewsletter(c, form)
	default:
		if utils.IsXHR(c) {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.ErrCodeBadRequest, msgUnrecognizedForm, nil))
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

// SubmitContact handles the contact page form. The form was bound by the
// validation middleware.
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	form, ok := c.MustGet(constants.ContextKeyContact).(*contact.ContactRequest)
	if !ok {
		utils.HandleAPIError(c, nil, http.StatusInternalServerError, common.ErrCodeInternalServer, "Invalid contact data format")
		return
	}
	h.sendContact(c, form)
}

// InvalidForm reports a form that failed validation and sends the browser back
func (h *ContactHandler) InvalidForm(c *gin.Context, errs []common.ValidationError) {
	if utils.IsXHR(c) {
		utils.HandleValidationError(c, MsgInvalidForm, errs)
		return
	}
	utils.AddFlash(c, constants.FlashDanger, MsgInvalidForm)
	c.Redirect(http.StatusFound, c.Request.URL.Path)
}

func (h *ContactHandler) sendContact(c *gin.Context, form *contact.ContactRequest) {
	err := h.submissions.SubmitContact(c.Request.Context(), form, origin(c))
	h.respond(c, err, MsgContactSent, MsgContactFailed)
}

func (h *ContactHandler) sendNewsletter(c *gin.Context, form *contact.NewsletterRequest) {
	err := h.submissions.SubmitNewsletter(c.Request.Context(), form, origin(c))
	h.respond(c, err, MsgNewsletterSent, MsgNewsletterFailed)
}

func (h *ContactHandler) respond(c *gin.Context, err error, okMsg, failMsg string) {
	if errors.Is(err, service.ErrInvalidSubmission) {
		h.InvalidForm(c, nil)
		return
	}
	if err != nil {
		if utils.IsXHR(c) {
			utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, failMsg)
			return
		}
		utils.LogError(err, "Form submission failed")
		utils.AddFlash(c, constants.FlashDanger, failMsg)
		c.Redirect(http.StatusFound, c.Request.URL.Path)
		return
	}

	if utils.IsXHR(c) {
		utils.HandleMessage(c, okMsg)
		return
	}
	utils.AddFlash(c, constants.FlashSuccess, okMsg)
	c.Redirect(http.StatusFound, c.Request.URL.Path)
}

func origin(c *gin.Context) service.Origin {
	return service.Origin{
		IP:        utils.GetRealIP(c),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
		Path:      c.Request.URL.Path,
	}
}

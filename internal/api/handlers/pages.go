package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/constants"
	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
	"github.com/vulcanent/vulcanweb/internal/content"
	"github.com/vulcanent/vulcanweb/internal/utils"
	"github.com/vulcanent/vulcanweb/internal/web"
)

type PageHandler struct {
	site *content.Site
	now  func() time.Time
}

func NewPageHandler(site *content.Site) *PageHandler {
	return &PageHandler{site: site, now: time.Now}
}

func (h *PageHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageIndex, "Home")
}

func (h *PageHandler) Team(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageTeam, "Our Team")
}

func (h *PageHandler) News(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageNews, "News")
}

func (h *PageHandler) Products(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageProducts, "Products")
}

func (h *PageHandler) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, web.PageContact, "Contact")
}

// NotFound renders the 404 page for unknown routes
func (h *PageHandler) NotFound(c *gin.Context) {
	h.RenderError(c, http.StatusNotFound, "Page not found")
}

// RenderError shows the error page, or a JSON error for XHR requests
func (h *PageHandler) RenderError(c *gin.Context, status int, message string) {
	if utils.IsXHR(c) {
		c.JSON(status, common.NewErrorResponse(errorCodeFor(status), message, nil))
		return
	}

	data := h.pageData(c, web.PageError, http.StatusText(status))
	data.Status = status
	data.Message = message
	data.RequestID = c.GetString(constants.ContextKeyRequestID)
	c.HTML(status, web.PageError, data)
}

// CSRFRejected is RenderError with the CSRF error code for XHR callers
func (h *PageHandler) CSRFRejected(c *gin.Context, status int, message string) {
	if utils.IsXHR(c) {
		c.JSON(status, common.NewErrorResponse(common.ErrCodeCSRF, message, nil))
		return
	}
	h.RenderError(c, status, message)
}

// RateLimited flashes the limit message on a form post and sends the
// browser home. Page loads get the 429 page instead, since the home page
// may itself be over the limit and redirecting there would loop.
// XHR callers get a 429 with the Retry-After header already set.
func (h *PageHandler) RateLimited(c *gin.Context, status int, message string) {
	if utils.IsXHR(c) {
		c.JSON(status, common.NewErrorResponse(common.ErrCodeTooManyRequests, message, nil))
		return
	}
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		h.RenderError(c, status, message)
		return
	}

	utils.AddFlash(c, constants.FlashDanger, message)
	c.Redirect(http.StatusFound, "/")
}

func (h *PageHandler) render(c *gin.Context, status int, page, title string) {
	c.HTML(status, page, h.pageData(c, page, title))
}

func (h *PageHandler) pageData(c *gin.Context, page, title string) web.PageData {
	return web.PageData{
		Title:     title,
		Active:    page,
		CSRFToken: c.GetString(constants.ContextKeyCSRFToken),
		Flashes:   utils.PopFlashes(c),
		Site:      h.site,
		Year:      h.now().Year(),
	}
}

func errorCodeFor(status int) common.ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return common.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		return common.ErrCodeTooManyRequests
	case status == http.StatusServiceUnavailable:
		return common.ErrCodeUnavailable
	case status >= 500:
		return common.ErrCodeInternalServer
	default:
		return common.ErrCodeBadRequest
	}
}

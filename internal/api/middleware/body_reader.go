package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxFormBytes caps form bodies well above the largest valid contact message
const MaxFormBytes = 64 << 10

// FormTooLargeMessage is shown when a posted form exceeds MaxFormBytes
const FormTooLargeMessage = "The submitted form is too large."

const maxMultipartMemory = 1 << 20

// LimitBody caps the request body of unsafe methods and parses form bodies
// up front, so an oversized form is answered with 413 here instead of
// surfacing later as a missing field or CSRF token.
func LimitBody(maxBytes int64, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		if err := parseForm(c.Request); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				reject(c, http.StatusRequestEntityTooLarge, FormTooLargeMessage)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// parseForm reads urlencoded and multipart bodies. ParseMultipartForm alone
// would hide a ParseForm error behind http.ErrNotMultipart.
func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

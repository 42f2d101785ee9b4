package middleware

import "github.com/gin-gonic/gin"

// RejectFunc renders the response for a request a middleware refused.
// It must write a response; the middleware aborts the chain afterwards.
type RejectFunc func(c *gin.Context, status int, message string)

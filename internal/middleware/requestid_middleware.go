package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the Gin context key under which the request ID is stored.
const RequestIDKey = "requestID"

// requestIDHeader is the header used to propagate the request ID.
const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID (or adopts the one the caller sent)
// and echoes it in the response header so log lines can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

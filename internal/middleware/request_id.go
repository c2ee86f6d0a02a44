package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key the ID is stored under.
	RequestIDKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID tags every request with an ID. A caller-supplied X-Request-ID is
// kept if it is reasonably short; otherwise a random UUID is generated. The ID
// is echoed back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the ID set by RequestID, or "" if it didn't run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

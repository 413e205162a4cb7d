package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIdHeader = "X-Request-Id"
	REQUEST_ID_KEY  = "requestId"
)

// RequestId keeps a caller-supplied X-Request-Id or assigns a new one.
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(REQUEST_ID_KEY, id)
		c.Header(RequestIdHeader, id)
		c.Next()
	}
}

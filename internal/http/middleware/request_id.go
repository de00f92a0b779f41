package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planie.app/api/common/logger"
)

const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID propagates the caller's X-Request-ID, or mints one, and attaches
// it to the request log fields.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.NewString()
		}

		c.Header(RequestIDHeader, rid)
		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: &rid})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

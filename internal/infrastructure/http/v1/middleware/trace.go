package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "milltrack/internal/core/context"
)

// RequestIDHeader is the header carrying the client-supplied request ID.
const RequestIDHeader = "X-Request-ID"

// Trace attaches trace and request IDs to the request context. A
// client-supplied X-Request-ID is honored, everything else is generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext()
		if rid := c.GetHeader(RequestIDHeader); rid != "" {
			if _, err := uuid.Parse(rid); err == nil {
				trace.RequestID = rid
			}
		}

		c.Header(RequestIDHeader, trace.RequestID)
		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/core/apperror"
	"milltrack/pkg/logger"
)

// ErrorHandler renders errors attached via c.Error as RFC 7807 style
// JSON. Handlers return errors; this middleware is the single place that
// shapes them for clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.HTTPStatus >= 500 {
				logger.Error(c.Request.Context(), "request error", "error", err)
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"error": gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
					"details": appErr.Details,
				},
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    apperror.CodeInternal,
				"message": "Internal server error",
			},
		})
	}
}

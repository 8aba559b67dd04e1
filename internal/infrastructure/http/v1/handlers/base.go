// Package handlers implements the v1 HTTP handlers. Handlers bind and
// validate input, call a domain service, and hand errors to the error
// middleware.
package handlers

import (
	"github.com/gin-gonic/gin"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
)

// pathID parses a UUID path parameter.
func pathID(c *gin.Context, name string) (id.ID, bool) {
	raw := c.Param(name)
	parsed, err := id.Parse(raw)
	if err != nil {
		fail(c, apperror.NewValidation("invalid "+name).WithDetail(name, raw))
		return id.Nil(), false
	}
	return parsed, true
}

// bindJSON binds the request body, converting binding failures into a
// validation error.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		fail(c, apperror.NewValidation("invalid request body").WithCause(err))
		return false
	}
	return true
}

// bindQuery binds query parameters.
func bindQuery(c *gin.Context, out any) bool {
	if err := c.ShouldBindQuery(out); err != nil {
		fail(c, apperror.NewValidation("invalid query parameters").WithCause(err))
		return false
	}
	return true
}

// fail records the error for the error middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

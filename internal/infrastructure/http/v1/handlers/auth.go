package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/auth"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication and serial number endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login issues an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	})
}

// Me returns the authenticated user.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := id.Parse(appctx.GetUserID(c.Request.Context()))
	if err != nil {
		fail(c, err)
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// NextSerial advances the caller's serial counter and returns the serial.
// POST /api/v1/auth/serial
func (h *AuthHandler) NextSerial(c *gin.Context) {
	userID, err := id.Parse(appctx.GetUserID(c.Request.Context()))
	if err != nil {
		fail(c, err)
		return
	}

	serial, err := h.service.NextSerialNumber(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SerialNumberResponse{Serial: serial})
}

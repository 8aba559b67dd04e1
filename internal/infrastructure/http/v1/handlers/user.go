package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/auth"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// UserHandler serves user administration endpoints.
type UserHandler struct {
	service *auth.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service *auth.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Create registers a user.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u := req.ToModel()
	if err := h.service.CreateUser(c.Request.Context(), u, req.Password); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(u))
}

// List returns users.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.NewUserResponse))
}

// Get returns one user.
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

// SetActive activates or deactivates a user.
// PATCH /api/v1/users/:id/active
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.SetActive(c.Request.Context(), userID, *req.Active); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignSerialPrefix assigns a serial prefix letter to a user.
// PUT /api/v1/users/:id/serial-prefix
func (h *UserHandler) AssignSerialPrefix(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AssignSerialPrefixRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.AssignSerialPrefix(c.Request.Context(), userID, req.Prefix)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}

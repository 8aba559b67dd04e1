package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/party"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// PartyHandler serves the party catalog endpoints.
type PartyHandler struct {
	service *party.Service
}

// NewPartyHandler creates a new party handler.
func NewPartyHandler(service *party.Service) *PartyHandler {
	return &PartyHandler{service: service}
}

// Create registers a party.
// POST /api/v1/parties
func (h *PartyHandler) Create(c *gin.Context) {
	var req dto.PartyRequest
	if !bindJSON(c, &req) {
		return
	}

	p := req.ToModel()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List returns parties.
// GET /api/v1/parties
func (h *PartyHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one party.
// GET /api/v1/parties/:id
func (h *PartyHandler) Get(c *gin.Context) {
	partyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update edits a party.
// PUT /api/v1/parties/:id
func (h *PartyHandler) Update(c *gin.Context) {
	partyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PartyRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		fail(c, err)
		return
	}
	req.Apply(p)

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete soft-deletes a party.
// DELETE /api/v1/parties/:id
func (h *PartyHandler) Delete(c *gin.Context) {
	partyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), partyID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

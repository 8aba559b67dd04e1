package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/dispatch"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// DispatchHandler serves dispatch and gate pass endpoints.
type DispatchHandler struct {
	service *dispatch.Service
}

// NewDispatchHandler creates a new dispatch handler.
func NewDispatchHandler(service *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{service: service}
}

// Create creates a dispatch note over ready papers.
// POST /api/v1/dispatches
func (h *DispatchHandler) Create(c *gin.Context) {
	var req dto.DispatchRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), d); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// List returns dispatches.
// GET /api/v1/dispatches
func (h *DispatchHandler) List(c *gin.Context) {
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

// Get returns one dispatch with items.
// GET /api/v1/dispatches/:id
func (h *DispatchHandler) Get(c *gin.Context) {
	dispatchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), dispatchID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// UpdateStatus moves a dispatch along its workflow.
// PATCH /api/v1/dispatches/:id/status
func (h *DispatchHandler) UpdateStatus(c *gin.Context) {
	dispatchID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.service.UpdateStatus(c.Request.Context(), dispatchID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// IssueGatePass issues a gate pass for an approved dispatch.
// POST /api/v1/dispatches/:id/gate-pass
func (h *DispatchHandler) IssueGatePass(c *gin.Context) {
	dispatchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gp, err := h.service.IssueGatePass(c.Request.Context(), dispatchID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gp)
}

// VerifyGatePass marks a gate pass as verified at the gate.
// POST /api/v1/gate-passes/:id/verify
func (h *DispatchHandler) VerifyGatePass(c *gin.Context) {
	gatePassID, ok := pathID(c, "id")
	if !ok {
		return
	}

	gp, err := h.service.VerifyGatePass(c.Request.Context(), gatePassID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gp)
}

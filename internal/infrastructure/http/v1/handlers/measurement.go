package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/measurement"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// MeasurementHandler serves measurement endpoints.
type MeasurementHandler struct {
	service *measurement.Service
}

// NewMeasurementHandler creates a new measurement handler.
func NewMeasurementHandler(service *measurement.Service) *MeasurementHandler {
	return &MeasurementHandler{service: service}
}

// Create records a measurement and issues its MP number.
// POST /api/v1/measurements
func (h *MeasurementHandler) Create(c *gin.Context) {
	var req dto.MeasurementRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// List returns measurements.
// GET /api/v1/measurements
func (h *MeasurementHandler) List(c *gin.Context) {
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

// Get returns one measurement with items.
// GET /api/v1/measurements/:id
func (h *MeasurementHandler) Get(c *gin.Context) {
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), measurementID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Update edits a measurement. Edit remarks are mandatory.
// PUT /api/v1/measurements/:id
func (h *MeasurementHandler) Update(c *gin.Context) {
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MeasurementUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.service.GetByID(c.Request.Context(), measurementID)
	if err != nil {
		fail(c, err)
		return
	}
	req.Apply(m)

	if err := h.service.Update(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete soft-deletes a measurement with a mandatory reason. The number
// stays occupied.
// DELETE /api/v1/measurements/:id
func (h *MeasurementHandler) Delete(c *gin.Context) {
	measurementID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), measurementID, req.Reason); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

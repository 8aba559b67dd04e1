package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/qc"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// QCHandler serves quality control endpoints.
type QCHandler struct {
	service *qc.Service
}

// NewQCHandler creates a new QC handler.
func NewQCHandler(service *qc.Service) *QCHandler {
	return &QCHandler{service: service}
}

// CreateCheck records an inspection and issues its QC number. A rework
// result also opens a rework order, returned alongside the check.
// POST /api/v1/qc/checks
func (h *QCHandler) CreateCheck(c *gin.Context) {
	var req dto.CheckRequest
	if !bindJSON(c, &req) {
		return
	}

	check, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	rework, err := h.service.CreateCheck(c.Request.Context(), check)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CheckResponse{Check: check, Rework: rework})
}

// ListChecks returns quality checks.
// GET /api/v1/qc/checks
func (h *QCHandler) ListChecks(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListChecks(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCheck returns one quality check.
// GET /api/v1/qc/checks/:id
func (h *QCHandler) GetCheck(c *gin.Context) {
	checkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	check, err := h.service.GetCheck(c.Request.Context(), checkID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// ListReworks returns rework orders.
// GET /api/v1/qc/reworks
func (h *QCHandler) ListReworks(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListReworks(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompleteRework closes a rework order.
// POST /api/v1/qc/reworks/:id/complete
func (h *QCHandler) CompleteRework(c *gin.Context) {
	reworkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rework, err := h.service.CompleteRework(c.Request.Context(), reworkID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rework)
}

// IssueCertificate issues a QC certificate for a passed check.
// POST /api/v1/qc/checks/:id/certificate
func (h *QCHandler) IssueCertificate(c *gin.Context) {
	checkID, ok := pathID(c, "id")
	if !ok {
		return
	}

	cert, err := h.service.IssueCertificate(c.Request.Context(), checkID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

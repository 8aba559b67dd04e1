package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/production"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// ProductionHandler serves production paper and scheduling endpoints.
type ProductionHandler struct {
	service *production.Service
}

// NewProductionHandler creates a new production handler.
func NewProductionHandler(service *production.Service) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// CreatePaper creates a draft paper and issues its series number.
// POST /api/v1/papers
func (h *ProductionHandler) CreatePaper(c *gin.Context) {
	var req dto.PaperRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.CreatePaper(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPapers returns papers.
// GET /api/v1/papers
func (h *ProductionHandler) ListPapers(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListPapers(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPaper returns one paper.
// GET /api/v1/papers/:id
func (h *ProductionHandler) GetPaper(c *gin.Context) {
	paperID, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetPaper(c.Request.Context(), paperID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePaper edits non-status paper fields.
// PATCH /api/v1/papers/:id
func (h *ProductionHandler) UpdatePaper(c *gin.Context) {
	paperID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaperUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.GetPaper(c.Request.Context(), paperID)
	if err != nil {
		fail(c, err)
		return
	}
	req.Apply(p)

	if err := h.service.UpdatePaper(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePaperStatus moves a paper along the workflow.
// PATCH /api/v1/papers/:id/status
func (h *ProductionHandler) UpdatePaperStatus(c *gin.Context) {
	paperID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), paperID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePaper removes a draft paper.
// DELETE /api/v1/papers/:id
func (h *ProductionHandler) DeletePaper(c *gin.Context) {
	paperID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePaper(c.Request.Context(), paperID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard returns paper counts per status.
// GET /api/v1/papers/dashboard
func (h *ProductionHandler) Dashboard(c *gin.Context) {
	counts, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// PendingForScheduling returns approved papers without a schedule.
// GET /api/v1/schedules/pending
func (h *ProductionHandler) PendingForScheduling(c *gin.Context) {
	papers, err := h.service.PendingForScheduling(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": papers})
}

// SchedulePaper plans a paper into a department.
// POST /api/v1/schedules
func (h *ProductionHandler) SchedulePaper(c *gin.Context) {
	var req dto.ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	sched, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.SchedulePaper(c.Request.Context(), sched); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sched)
}

// UpdateScheduleStatus moves a schedule entry along its workflow.
// PATCH /api/v1/schedules/:id/status
func (h *ProductionHandler) UpdateScheduleStatus(c *gin.Context) {
	scheduleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	sched, err := h.service.UpdateScheduleStatus(c.Request.Context(), scheduleID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sched)
}

// DepartmentSchedule returns a department's schedule within a window.
// GET /api/v1/schedules/department/:name
func (h *ProductionHandler) DepartmentSchedule(c *gin.Context) {
	var query dto.DepartmentScheduleQuery
	if !bindQuery(c, &query) {
		return
	}
	from, to, err := query.Window()
	if err != nil {
		fail(c, err)
		return
	}

	schedules, err := h.service.DepartmentSchedule(c.Request.Context(), c.Param("name"), from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": schedules})
}

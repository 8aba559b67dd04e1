package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"milltrack/internal/domain/logistics"
	"milltrack/internal/infrastructure/http/v1/dto"
)

// LogisticsHandler serves vehicle, driver and delivery endpoints.
type LogisticsHandler struct {
	service *logistics.Service
}

// NewLogisticsHandler creates a new logistics handler.
func NewLogisticsHandler(service *logistics.Service) *LogisticsHandler {
	return &LogisticsHandler{service: service}
}

// CreateVehicle registers a vehicle.
// POST /api/v1/vehicles
func (h *LogisticsHandler) CreateVehicle(c *gin.Context) {
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	v := req.ToModel()
	if err := h.service.CreateVehicle(c.Request.Context(), v); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// ListVehicles returns vehicles.
// GET /api/v1/vehicles
func (h *LogisticsHandler) ListVehicles(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListVehicles(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateVehicle edits a vehicle.
// PUT /api/v1/vehicles/:id
func (h *LogisticsHandler) UpdateVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.service.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		fail(c, err)
		return
	}
	req.Apply(v)

	if err := h.service.UpdateVehicle(c.Request.Context(), v); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// CreateDriver registers a driver.
// POST /api/v1/drivers
func (h *LogisticsHandler) CreateDriver(c *gin.Context) {
	var req dto.DriverRequest
	if !bindJSON(c, &req) {
		return
	}

	d := req.ToModel()
	if err := h.service.CreateDriver(c.Request.Context(), d); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// ListDrivers returns drivers.
// GET /api/v1/drivers
func (h *LogisticsHandler) ListDrivers(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListDrivers(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateDriver edits a driver.
// PUT /api/v1/drivers/:id
func (h *LogisticsHandler) UpdateDriver(c *gin.Context) {
	driverID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DriverRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.service.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		fail(c, err)
		return
	}
	req.Apply(d)

	if err := h.service.UpdateDriver(c.Request.Context(), d); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Assign binds a dispatch to a vehicle and driver.
// POST /api/v1/deliveries
func (h *LogisticsHandler) Assign(c *gin.Context) {
	var req dto.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := req.ToModel()
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.Assign(c.Request.Context(), a); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAssignments returns delivery assignments.
// GET /api/v1/deliveries
func (h *LogisticsHandler) ListAssignments(c *gin.Context) {
	var query dto.ListQuery
	if !bindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.service.ListAssignments(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateAssignmentStatus moves an assignment along the delivery workflow.
// PATCH /api/v1/deliveries/:id/status
func (h *LogisticsHandler) UpdateAssignmentStatus(c *gin.Context) {
	assignmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.service.UpdateAssignmentStatus(c.Request.Context(), assignmentID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// LiveDeliveries returns assignments still on the road.
// GET /api/v1/deliveries/live
func (h *LogisticsHandler) LiveDeliveries(c *gin.Context) {
	assignments, err := h.service.LiveDeliveries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": assignments})
}

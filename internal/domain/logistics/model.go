// Package logistics provides vehicles, drivers and delivery assignments.
package logistics

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
	"milltrack/internal/core/id"
)

// Vehicle is a delivery vehicle. VehicleNumber is unique.
type Vehicle struct {
	entity.BaseDocument

	VehicleNumber string `db:"vehicle_number" json:"vehicleNumber"`
	VehicleType   string `db:"vehicle_type" json:"vehicleType,omitempty"`
	CapacityKg    int    `db:"capacity_kg" json:"capacityKg,omitempty"`
	IsActive      bool   `db:"is_active" json:"isActive"`
}

// NewVehicle creates an active Vehicle with generated ID.
func NewVehicle() *Vehicle {
	return &Vehicle{
		BaseDocument: entity.NewBaseDocument(),
		IsActive:     true,
	}
}

// Validate checks vehicle invariants.
func (v *Vehicle) Validate(_ context.Context) error {
	if v.VehicleNumber == "" {
		return apperror.NewValidation("vehicle number is required")
	}
	return nil
}

// Driver is a delivery driver. Mobile and licence number are unique.
type Driver struct {
	entity.BaseDocument

	Name          string `db:"name" json:"name"`
	Mobile        string `db:"mobile" json:"mobile"`
	LicenseNumber string `db:"license_number" json:"licenseNumber"`
	IsActive      bool   `db:"is_active" json:"isActive"`
}

// NewDriver creates an active Driver with generated ID.
func NewDriver() *Driver {
	return &Driver{
		BaseDocument: entity.NewBaseDocument(),
		IsActive:     true,
	}
}

// Validate checks driver invariants.
func (d *Driver) Validate(_ context.Context) error {
	if d.Name == "" {
		return apperror.NewValidation("driver name is required")
	}
	if d.Mobile == "" {
		return apperror.NewValidation("driver mobile is required")
	}
	if d.LicenseNumber == "" {
		return apperror.NewValidation("driver license number is required")
	}
	return nil
}

// Assignment statuses.
const (
	StatusAssigned  = "assigned"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusDelayed   = "delayed"
)

// assignmentTransitions mirrors the delivery workflow. A delayed
// delivery can still arrive.
var assignmentTransitions = map[string][]string{
	StatusAssigned:  {StatusInTransit},
	StatusInTransit: {StatusDelivered, StatusDelayed},
	StatusDelayed:   {StatusDelivered},
}

// CanTransition reports whether an assignment status change is allowed.
func CanTransition(from, to string) bool {
	for _, next := range assignmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Assignment binds a dispatch to a vehicle and driver for delivery.
type Assignment struct {
	entity.BaseDocument

	DispatchID  id.ID      `db:"dispatch_id" json:"dispatchId"`
	VehicleID   id.ID      `db:"vehicle_id" json:"vehicleId"`
	DriverID    id.ID      `db:"driver_id" json:"driverId"`
	Status      string     `db:"status" json:"status"`
	AssignedAt  time.Time  `db:"assigned_at" json:"assignedAt"`
	DeliveredAt *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	Notes       string     `db:"notes" json:"notes,omitempty"`
}

// NewAssignment creates an Assignment with generated ID.
func NewAssignment() *Assignment {
	return &Assignment{
		BaseDocument: entity.NewBaseDocument(),
		Status:       StatusAssigned,
		AssignedAt:   time.Now().UTC(),
	}
}

// Validate checks assignment invariants.
func (a *Assignment) Validate(_ context.Context) error {
	if id.IsNil(a.DispatchID) {
		return apperror.NewValidation("assignment dispatch is required")
	}
	if id.IsNil(a.VehicleID) {
		return apperror.NewValidation("assignment vehicle is required")
	}
	if id.IsNil(a.DriverID) {
		return apperror.NewValidation("assignment driver is required")
	}
	return nil
}

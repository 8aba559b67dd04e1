package dto

import (
	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/logistics"
)

// VehicleRequest registers or updates a vehicle.
type VehicleRequest struct {
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	VehicleType   string `json:"vehicleType"`
	CapacityKg    int    `json:"capacityKg"`
	IsActive      *bool  `json:"isActive"`
}

// ToModel builds a new vehicle entity.
func (r VehicleRequest) ToModel() *logistics.Vehicle {
	v := logistics.NewVehicle()
	r.Apply(v)
	return v
}

// Apply copies request fields onto an existing vehicle.
func (r VehicleRequest) Apply(v *logistics.Vehicle) {
	v.VehicleNumber = r.VehicleNumber
	v.VehicleType = r.VehicleType
	v.CapacityKg = r.CapacityKg
	if r.IsActive != nil {
		v.IsActive = *r.IsActive
	}
}

// DriverRequest registers or updates a driver.
type DriverRequest struct {
	Name          string `json:"name" binding:"required"`
	Mobile        string `json:"mobile" binding:"required"`
	LicenseNumber string `json:"licenseNumber" binding:"required"`
	IsActive      *bool  `json:"isActive"`
}

// ToModel builds a new driver entity.
func (r DriverRequest) ToModel() *logistics.Driver {
	d := logistics.NewDriver()
	r.Apply(d)
	return d
}

// Apply copies request fields onto an existing driver.
func (r DriverRequest) Apply(d *logistics.Driver) {
	d.Name = r.Name
	d.Mobile = r.Mobile
	d.LicenseNumber = r.LicenseNumber
	if r.IsActive != nil {
		d.IsActive = *r.IsActive
	}
}

// AssignmentRequest binds a dispatch to a vehicle and driver.
type AssignmentRequest struct {
	DispatchID string `json:"dispatchId" binding:"required"`
	VehicleID  string `json:"vehicleId" binding:"required"`
	DriverID   string `json:"driverId" binding:"required"`
	Notes      string `json:"notes"`
}

// ToModel builds a new assignment entity.
func (r AssignmentRequest) ToModel() (*logistics.Assignment, error) {
	dispatchID, err := id.Parse(r.DispatchID)
	if err != nil {
		return nil, apperror.NewValidation("invalid dispatchId").WithDetail("dispatchId", r.DispatchID)
	}
	vehicleID, err := id.Parse(r.VehicleID)
	if err != nil {
		return nil, apperror.NewValidation("invalid vehicleId").WithDetail("vehicleId", r.VehicleID)
	}
	driverID, err := id.Parse(r.DriverID)
	if err != nil {
		return nil, apperror.NewValidation("invalid driverId").WithDetail("driverId", r.DriverID)
	}

	a := logistics.NewAssignment()
	a.DispatchID = dispatchID
	a.VehicleID = vehicleID
	a.DriverID = driverID
	a.Notes = r.Notes
	return a, nil
}

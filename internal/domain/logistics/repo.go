package logistics

import (
	"context"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for logistics persistence.
type Repository interface {
	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, vehicleID id.ID) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	ListVehicles(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Vehicle], error)

	CreateDriver(ctx context.Context, d *Driver) error
	GetDriver(ctx context.Context, driverID id.ID) (*Driver, error)
	UpdateDriver(ctx context.Context, d *Driver) error
	ListDrivers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Driver], error)

	CreateAssignment(ctx context.Context, a *Assignment) error
	GetAssignment(ctx context.Context, assignmentID id.ID) (*Assignment, error)
	UpdateAssignment(ctx context.Context, a *Assignment) error
	ListAssignments(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Assignment], error)

	// LiveAssignments returns assignments not yet delivered.
	LiveAssignments(ctx context.Context) ([]*Assignment, error)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain"
	"milltrack/internal/domain/logistics"
)

// Compile-time check that LogisticsRepo implements logistics.Repository.
var _ logistics.Repository = (*LogisticsRepo)(nil)

// LogisticsRepo persists vehicles, drivers and delivery assignments.
type LogisticsRepo struct {
	vehicles    *BaseRepo[*logistics.Vehicle]
	drivers     *BaseRepo[*logistics.Driver]
	assignments *BaseRepo[*logistics.Assignment]
}

// NewLogisticsRepo creates a new logistics repository.
func NewLogisticsRepo(txm *TxManager) *LogisticsRepo {
	return &LogisticsRepo{
		vehicles: NewBaseRepo(
			txm,
			"vehicles",
			ExtractDBColumns[logistics.Vehicle](),
			[]string{"vehicle_number", "vehicle_type"},
			func() *logistics.Vehicle { return &logistics.Vehicle{} },
		),
		drivers: NewBaseRepo(
			txm,
			"drivers",
			ExtractDBColumns[logistics.Driver](),
			[]string{"name", "mobile", "license_number"},
			func() *logistics.Driver { return &logistics.Driver{} },
		),
		assignments: NewBaseRepo(
			txm,
			"delivery_assignments",
			ExtractDBColumns[logistics.Assignment](),
			nil,
			func() *logistics.Assignment { return &logistics.Assignment{} },
		),
	}
}

// CreateVehicle inserts a vehicle. Vehicle numbers are unique.
func (r *LogisticsRepo) CreateVehicle(ctx context.Context, v *logistics.Vehicle) error {
	if err := r.vehicles.Create(ctx, v); err != nil {
		if IsUniqueViolation(err) {
			return apperror.NewDuplicate("vehicle", "vehicle_number", v.VehicleNumber)
		}
		return err
	}
	return nil
}

// GetVehicle retrieves a vehicle by ID.
func (r *LogisticsRepo) GetVehicle(ctx context.Context, vehicleID id.ID) (*logistics.Vehicle, error) {
	return r.vehicles.GetByID(ctx, vehicleID)
}

// UpdateVehicle modifies a vehicle.
func (r *LogisticsRepo) UpdateVehicle(ctx context.Context, v *logistics.Vehicle) error {
	return r.vehicles.Update(ctx, v)
}

// ListVehicles retrieves vehicles with filtering and pagination.
func (r *LogisticsRepo) ListVehicles(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*logistics.Vehicle], error) {
	return r.vehicles.List(ctx, filter)
}

// CreateDriver inserts a driver. Mobile and licence number are unique.
func (r *LogisticsRepo) CreateDriver(ctx context.Context, d *logistics.Driver) error {
	if err := r.drivers.Create(ctx, d); err != nil {
		if IsUniqueViolation(err) {
			field := "mobile"
			if ViolatedConstraint(err) == "drivers_license_number_key" {
				field = "license_number"
			}
			return apperror.NewDuplicate("driver", field, d.Mobile)
		}
		return err
	}
	return nil
}

// GetDriver retrieves a driver by ID.
func (r *LogisticsRepo) GetDriver(ctx context.Context, driverID id.ID) (*logistics.Driver, error) {
	return r.drivers.GetByID(ctx, driverID)
}

// UpdateDriver modifies a driver.
func (r *LogisticsRepo) UpdateDriver(ctx context.Context, d *logistics.Driver) error {
	return r.drivers.Update(ctx, d)
}

// ListDrivers retrieves drivers with filtering and pagination.
func (r *LogisticsRepo) ListDrivers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*logistics.Driver], error) {
	return r.drivers.List(ctx, filter)
}

// CreateAssignment inserts a delivery assignment.
func (r *LogisticsRepo) CreateAssignment(ctx context.Context, a *logistics.Assignment) error {
	return r.assignments.Create(ctx, a)
}

// GetAssignment retrieves an assignment by ID.
func (r *LogisticsRepo) GetAssignment(ctx context.Context, assignmentID id.ID) (*logistics.Assignment, error) {
	return r.assignments.GetByID(ctx, assignmentID)
}

// UpdateAssignment modifies an assignment.
func (r *LogisticsRepo) UpdateAssignment(ctx context.Context, a *logistics.Assignment) error {
	return r.assignments.Update(ctx, a)
}

// ListAssignments retrieves assignments with filtering and pagination.
func (r *LogisticsRepo) ListAssignments(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*logistics.Assignment], error) {
	return r.assignments.List(ctx, filter)
}

// LiveAssignments returns assignments not yet delivered, oldest first.
func (r *LogisticsRepo) LiveAssignments(ctx context.Context) ([]*logistics.Assignment, error) {
	q := r.assignments.Builder().
		Select(ExtractDBColumns[logistics.Assignment]()...).
		From("delivery_assignments").
		Where(squirrel.NotEq{"status": logistics.StatusDelivered}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("assigned_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var assignments []*logistics.Assignment
	if err := pgxscan.Select(ctx, r.assignments.Querier(ctx), &assignments, sql, args...); err != nil {
		return nil, fmt.Errorf("live assignments: %w", err)
	}
	return assignments, nil
}

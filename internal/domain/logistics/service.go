package logistics

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/internal/domain/dispatch"
	"milltrack/pkg/logger"
)

// DispatchGetter exposes the dispatches an assignment delivers.
// Satisfied by dispatch.Service.
type DispatchGetter interface {
	GetByID(ctx context.Context, dispatchID id.ID) (*dispatch.Dispatch, error)
}

// Service provides business operations for logistics.
type Service struct {
	repo       Repository
	dispatches DispatchGetter
	txManager  tx.Manager
}

// NewService creates a new logistics service.
func NewService(repo Repository, dispatches DispatchGetter, txManager tx.Manager) *Service {
	return &Service{
		repo:       repo,
		dispatches: dispatches,
		txManager:  txManager,
	}
}

// --- Vehicles ---

// CreateVehicle registers a vehicle.
func (s *Service) CreateVehicle(ctx context.Context, v *Vehicle) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	v.CreatedBy = appctx.GetUserID(ctx)
	v.UpdatedBy = v.CreatedBy
	return s.repo.CreateVehicle(ctx, v)
}

// UpdateVehicle updates a vehicle.
func (s *Service) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	v.UpdatedBy = appctx.GetUserID(ctx)
	return s.repo.UpdateVehicle(ctx, v)
}

// GetVehicle retrieves a vehicle.
func (s *Service) GetVehicle(ctx context.Context, vehicleID id.ID) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, vehicleID)
}

// ListVehicles retrieves vehicles with filtering.
func (s *Service) ListVehicles(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Vehicle], error) {
	return s.repo.ListVehicles(ctx, filter)
}

// --- Drivers ---

// CreateDriver registers a driver.
func (s *Service) CreateDriver(ctx context.Context, d *Driver) error {
	if err := d.Validate(ctx); err != nil {
		return err
	}
	d.CreatedBy = appctx.GetUserID(ctx)
	d.UpdatedBy = d.CreatedBy
	return s.repo.CreateDriver(ctx, d)
}

// UpdateDriver updates a driver.
func (s *Service) UpdateDriver(ctx context.Context, d *Driver) error {
	if err := d.Validate(ctx); err != nil {
		return err
	}
	d.UpdatedBy = appctx.GetUserID(ctx)
	return s.repo.UpdateDriver(ctx, d)
}

// GetDriver retrieves a driver.
func (s *Service) GetDriver(ctx context.Context, driverID id.ID) (*Driver, error) {
	return s.repo.GetDriver(ctx, driverID)
}

// ListDrivers retrieves drivers with filtering.
func (s *Service) ListDrivers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Driver], error) {
	return s.repo.ListDrivers(ctx, filter)
}

// --- Assignments ---

// Assign binds an approved dispatch to an active vehicle and driver.
func (s *Service) Assign(ctx context.Context, a *Assignment) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}

	d, err := s.dispatches.GetByID(ctx, a.DispatchID)
	if err != nil {
		return err
	}
	if d.Status != dispatch.StatusApproved && d.Status != dispatch.StatusDispatched {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "only approved dispatches can be assigned").
			WithDetail("status", d.Status)
	}

	vehicle, err := s.repo.GetVehicle(ctx, a.VehicleID)
	if err != nil {
		return err
	}
	if !vehicle.IsActive {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "vehicle is not active").
			WithDetail("vehicle", vehicle.VehicleNumber)
	}

	driver, err := s.repo.GetDriver(ctx, a.DriverID)
	if err != nil {
		return err
	}
	if !driver.IsActive {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "driver is not active").
			WithDetail("driver", driver.Name)
	}

	a.CreatedBy = appctx.GetUserID(ctx)
	a.UpdatedBy = a.CreatedBy

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateAssignment(ctx, a)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "delivery assigned",
		"dispatch_id", a.DispatchID,
		"vehicle", vehicle.VehicleNumber,
		"driver", driver.Name)
	return nil
}

// UpdateAssignmentStatus moves an assignment along the delivery workflow.
func (s *Service) UpdateAssignmentStatus(ctx context.Context, assignmentID id.ID, to string) (*Assignment, error) {
	a, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(a.Status, to) {
		return nil, apperror.NewInvalidStatusTransition("assignment", a.Status, to)
	}

	a.Status = to
	a.UpdatedBy = appctx.GetUserID(ctx)
	if to == StatusDelivered {
		now := time.Now().UTC()
		a.DeliveredAt = &now
	}

	if err := s.repo.UpdateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssignments retrieves assignments with filtering.
func (s *Service) ListAssignments(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Assignment], error) {
	return s.repo.ListAssignments(ctx, filter)
}

// LiveDeliveries returns assignments still on the road.
func (s *Service) LiveDeliveries(ctx context.Context) ([]*Assignment, error) {
	return s.repo.LiveAssignments(ctx)
}

package logistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/dispatch"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLogisticsRepo struct {
	Repository
	vehicles    map[id.ID]*Vehicle
	drivers     map[id.ID]*Driver
	assignments map[id.ID]*Assignment
}

func newFakeLogisticsRepo() *fakeLogisticsRepo {
	return &fakeLogisticsRepo{
		vehicles:    make(map[id.ID]*Vehicle),
		drivers:     make(map[id.ID]*Driver),
		assignments: make(map[id.ID]*Assignment),
	}
}

func (r *fakeLogisticsRepo) CreateVehicle(_ context.Context, v *Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *fakeLogisticsRepo) GetVehicle(_ context.Context, vehicleID id.ID) (*Vehicle, error) {
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, apperror.NewNotFound("vehicle", vehicleID.String())
	}
	return v, nil
}

func (r *fakeLogisticsRepo) CreateDriver(_ context.Context, d *Driver) error {
	r.drivers[d.ID] = d
	return nil
}

func (r *fakeLogisticsRepo) GetDriver(_ context.Context, driverID id.ID) (*Driver, error) {
	d, ok := r.drivers[driverID]
	if !ok {
		return nil, apperror.NewNotFound("driver", driverID.String())
	}
	return d, nil
}

func (r *fakeLogisticsRepo) CreateAssignment(_ context.Context, a *Assignment) error {
	r.assignments[a.ID] = a
	return nil
}

func (r *fakeLogisticsRepo) GetAssignment(_ context.Context, assignmentID id.ID) (*Assignment, error) {
	a, ok := r.assignments[assignmentID]
	if !ok {
		return nil, apperror.NewNotFound("assignment", assignmentID.String())
	}
	return a, nil
}

func (r *fakeLogisticsRepo) UpdateAssignment(_ context.Context, a *Assignment) error {
	r.assignments[a.ID] = a
	return nil
}

type fakeDispatches struct {
	dispatches map[id.ID]*dispatch.Dispatch
}

func (f *fakeDispatches) GetByID(_ context.Context, dispatchID id.ID) (*dispatch.Dispatch, error) {
	d, ok := f.dispatches[dispatchID]
	if !ok {
		return nil, apperror.NewNotFound("dispatch", dispatchID.String())
	}
	return d, nil
}

func (f *fakeDispatches) addDispatch(status string) *dispatch.Dispatch {
	d := dispatch.New()
	d.PartyID = id.New()
	d.Status = status
	f.dispatches[d.ID] = d
	return d
}

func setup() (*Service, *fakeLogisticsRepo, *fakeDispatches) {
	repo := newFakeLogisticsRepo()
	dispatches := &fakeDispatches{dispatches: make(map[id.ID]*dispatch.Dispatch)}
	return NewService(repo, dispatches, nopTxManager{}), repo, dispatches
}

func newTestAssignment(ctx context.Context, t *testing.T, svc *Service, dispatchID id.ID) *Assignment {
	t.Helper()

	v := NewVehicle()
	v.VehicleNumber = "MH12AB1234"
	require.NoError(t, svc.CreateVehicle(ctx, v))

	d := NewDriver()
	d.Name = "Ramesh"
	d.Mobile = "9876543210"
	d.LicenseNumber = "DL-1234567"
	require.NoError(t, svc.CreateDriver(ctx, d))

	a := NewAssignment()
	a.DispatchID = dispatchID
	a.VehicleID = v.ID
	a.DriverID = d.ID
	return a
}

func TestAssignRequiresApprovedDispatch(t *testing.T) {
	ctx := context.Background()
	svc, _, dispatches := setup()

	pending := dispatches.addDispatch(dispatch.StatusPending)
	a := newTestAssignment(ctx, t, svc, pending.ID)

	err := svc.Assign(ctx, a)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)
}

func TestAssignRejectsInactiveVehicle(t *testing.T) {
	ctx := context.Background()
	svc, repo, dispatches := setup()

	approved := dispatches.addDispatch(dispatch.StatusApproved)
	a := newTestAssignment(ctx, t, svc, approved.ID)
	repo.vehicles[a.VehicleID].IsActive = false

	err := svc.Assign(ctx, a)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)
}

func TestAssignmentDeliveryWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, _, dispatches := setup()

	approved := dispatches.addDispatch(dispatch.StatusApproved)
	a := newTestAssignment(ctx, t, svc, approved.ID)
	require.NoError(t, svc.Assign(ctx, a))
	assert.Equal(t, StatusAssigned, a.Status)

	// Cannot deliver before leaving.
	_, err := svc.UpdateAssignmentStatus(ctx, a.ID, StatusDelivered)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidStatus, err.(*apperror.AppError).Code)

	_, err = svc.UpdateAssignmentStatus(ctx, a.ID, StatusInTransit)
	require.NoError(t, err)

	// A delayed delivery can still arrive.
	delayed, err := svc.UpdateAssignmentStatus(ctx, a.ID, StatusDelayed)
	require.NoError(t, err)
	assert.Equal(t, StatusDelayed, delayed.Status)

	delivered, err := svc.UpdateAssignmentStatus(ctx, a.ID, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)
}

func TestVehicleAndDriverValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup()

	v := NewVehicle()
	err := svc.CreateVehicle(ctx, v)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)

	d := NewDriver()
	d.Name = "Ramesh"
	err = svc.CreateDriver(ctx, d)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

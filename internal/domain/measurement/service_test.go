package measurement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMeasurementRepo struct {
	Repository
	measurements map[id.ID]*Measurement
	items        map[id.ID][]*Item
	numbers      map[string]bool
}

func newFakeRepo() *fakeMeasurementRepo {
	return &fakeMeasurementRepo{
		measurements: make(map[id.ID]*Measurement),
		items:        make(map[id.ID][]*Item),
		numbers:      make(map[string]bool),
	}
}

func (r *fakeMeasurementRepo) CurrentMax(_ context.Context, class sequence.Class) (int64, error) {
	var all []string
	for number := range r.numbers {
		all = append(all, number)
	}
	return class.MaxOf(all), nil
}

func (r *fakeMeasurementRepo) Create(_ context.Context, m *Measurement) error {
	if r.numbers[m.Number] {
		return &sequence.DuplicateError{Number: m.Number}
	}
	r.numbers[m.Number] = true
	r.measurements[m.ID] = m
	return nil
}

func (r *fakeMeasurementRepo) GetByID(_ context.Context, measurementID id.ID) (*Measurement, error) {
	m, ok := r.measurements[measurementID]
	if !ok {
		return nil, apperror.NewNotFound("measurement", measurementID.String())
	}
	return m, nil
}

func (r *fakeMeasurementRepo) SaveItems(_ context.Context, measurementID id.ID, items []*Item) error {
	r.items[measurementID] = items
	return nil
}

func (r *fakeMeasurementRepo) GetItems(_ context.Context, measurementID id.ID) ([]*Item, error) {
	return r.items[measurementID], nil
}

func (r *fakeMeasurementRepo) SoftDelete(_ context.Context, measurementID id.ID, reason string, at time.Time) error {
	m := r.measurements[measurementID]
	m.DeletionMark = true
	m.DeleteReason = reason
	m.DeletedAt = &at
	// The row survives; its number stays in r.numbers.
	return nil
}

func newTestMeasurement() *Measurement {
	m := New()
	m.PartyID = id.New()
	m.SiteAddress = "12 Mill Road"
	m.Items = []*Item{{
		ID:       id.New(),
		Location: "living room",
		Width:    decimal.NewFromFloat(42.5),
		Height:   decimal.NewFromFloat(84),
		Quantity: 2,
	}}
	return m
}

func TestCreateIssuesSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	first := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, first))
	assert.Equal(t, "MP00001", first.Number)

	second := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, "MP00002", second.Number)
}

func TestCreateSkipsDeletedNumbers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	first := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, first))
	second := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, second))

	// Soft delete keeps the number occupied: the next measurement gets
	// MP00003, not a reissue of MP00002.
	require.NoError(t, svc.Delete(ctx, second.ID, "measured the wrong site"))

	third := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, third))
	assert.Equal(t, "MP00003", third.Number)
}

func TestCreateValidatesItems(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	m := newTestMeasurement()
	m.Items = nil
	err := svc.Create(ctx, m)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)

	m = newTestMeasurement()
	m.Items[0].Width = decimal.Zero
	err = svc.Create(ctx, m)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestUpdateRequiresEditRemarks(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	m := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, m))

	err := svc.Update(ctx, m)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestDeleteRequiresReason(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	m := newTestMeasurement()
	require.NoError(t, svc.Create(ctx, m))

	err := svc.Delete(ctx, m.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)

	require.NoError(t, svc.Delete(ctx, m.ID, "duplicate entry"))
	assert.True(t, repo.measurements[m.ID].DeletionMark)
	assert.Equal(t, "duplicate entry", repo.measurements[m.ID].DeleteReason)
}

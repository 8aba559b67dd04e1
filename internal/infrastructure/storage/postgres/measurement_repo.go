package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/domain/measurement"
)

// Compile-time check that MeasurementRepo implements measurement.Repository.
var _ measurement.Repository = (*MeasurementRepo)(nil)

// MeasurementRepo persists measurements and their items.
type MeasurementRepo struct {
	*BaseRepo[*measurement.Measurement]
}

// NewMeasurementRepo creates a new measurement repository.
func NewMeasurementRepo(txm *TxManager) *MeasurementRepo {
	return &MeasurementRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"measurements",
			ExtractDBColumns[measurement.Measurement](),
			[]string{"number", "site_address", "measured_by"},
			func() *measurement.Measurement { return &measurement.Measurement{} },
		),
	}
}

// Create inserts a measurement. A collision on the number's unique
// constraint comes back as *sequence.DuplicateError so the caller can
// retry with a fresh number.
func (r *MeasurementRepo) Create(ctx context.Context, m *measurement.Measurement) error {
	if err := r.BaseRepo.Create(ctx, m); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: m.Number}
		}
		return err
	}
	return nil
}

// SoftDelete marks a measurement deleted while keeping its number
// occupied in the series.
func (r *MeasurementRepo) SoftDelete(ctx context.Context, measurementID id.ID, reason string, at time.Time) error {
	q := r.Builder().
		Update("measurements").
		Set("deletion_mark", true).
		Set("deleted_at", at).
		Set("delete_reason", reason).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": measurementID}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("soft delete measurement: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("measurement", measurementID.String())
	}
	return nil
}

// SaveItems replaces the items of a measurement.
func (r *MeasurementRepo) SaveItems(ctx context.Context, measurementID id.ID, items []*measurement.Item) error {
	querier := r.Querier(ctx)

	delQ := r.Builder().
		Delete("measurement_items").
		Where(squirrel.Eq{"measurement_id": measurementID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete measurement items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	insQ := r.Builder().
		Insert("measurement_items").
		Columns("id", "measurement_id", "location", "product_type", "width", "height", "quantity", "remarks")

	for _, item := range items {
		if id.IsNil(item.ID) {
			item.ID = id.New()
		}
		item.MeasurementID = measurementID
		insQ = insQ.Values(item.ID, item.MeasurementID, item.Location, item.ProductType,
			item.Width, item.Height, item.Quantity, item.Remarks)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert measurement items: %w", err)
	}

	return nil
}

// GetItems returns the items of a measurement in insertion order.
func (r *MeasurementRepo) GetItems(ctx context.Context, measurementID id.ID) ([]*measurement.Item, error) {
	q := r.Builder().
		Select("id", "measurement_id", "location", "product_type", "width", "height", "quantity", "remarks").
		From("measurement_items").
		Where(squirrel.Eq{"measurement_id": measurementID}).
		OrderBy("location")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*measurement.Item
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get measurement items: %w", err)
	}
	return items, nil
}

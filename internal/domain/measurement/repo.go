package measurement

import (
	"context"
	"time"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for Measurement persistence.
//
// Create must return a *sequence.DuplicateError when the measurement
// number collides with an existing row.
type Repository interface {
	Create(ctx context.Context, m *Measurement) error
	GetByID(ctx context.Context, measurementID id.ID) (*Measurement, error)
	Update(ctx context.Context, m *Measurement) error
	SoftDelete(ctx context.Context, measurementID id.ID, reason string, at time.Time) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Measurement], error)

	SaveItems(ctx context.Context, measurementID id.ID, items []*Item) error
	GetItems(ctx context.Context, measurementID id.ID) ([]*Item, error)
}

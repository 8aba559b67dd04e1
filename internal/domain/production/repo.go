package production

import (
	"context"
	"time"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for Paper persistence.
//
// Create must return a *sequence.DuplicateError when the paper number
// collides with an existing row.
type Repository interface {
	Create(ctx context.Context, p *Paper) error
	GetByID(ctx context.Context, paperID id.ID) (*Paper, error)
	Update(ctx context.Context, p *Paper) error
	SetDeletionMark(ctx context.Context, paperID id.ID, marked bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Paper], error)

	// PendingForScheduling returns approved papers with no schedule yet.
	PendingForScheduling(ctx context.Context) ([]*Paper, error)

	// CountByStatus returns paper counts per status for the dashboard.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ScheduleRepository defines the interface for Schedule persistence.
type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, scheduleID id.ID) (*Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	ListByDepartment(ctx context.Context, department string, from, to time.Time) ([]*Schedule, error)
	ListByPaper(ctx context.Context, paperID id.ID) ([]*Schedule, error)
}

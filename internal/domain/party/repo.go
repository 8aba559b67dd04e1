package party

import (
	"context"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for Party persistence.
type Repository interface {
	Create(ctx context.Context, p *Party) error
	GetByID(ctx context.Context, partyID id.ID) (*Party, error)
	Update(ctx context.Context, p *Party) error
	SetDeletionMark(ctx context.Context, partyID id.ID, marked bool) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error)

	// ExistsByPhone checks the phone uniqueness rule.
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

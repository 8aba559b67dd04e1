package dispatch

import (
	"context"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for Dispatch persistence.
//
// The Create methods must return a *sequence.DuplicateError when the
// generated number collides with an existing row.
type Repository interface {
	Create(ctx context.Context, d *Dispatch) error
	GetByID(ctx context.Context, dispatchID id.ID) (*Dispatch, error)
	Update(ctx context.Context, d *Dispatch) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Dispatch], error)

	SaveItems(ctx context.Context, dispatchID id.ID, items []*Item) error
	GetItems(ctx context.Context, dispatchID id.ID) ([]*Item, error)

	CreateGatePass(ctx context.Context, gp *GatePass) error
	GetGatePass(ctx context.Context, gatePassID id.ID) (*GatePass, error)
	UpdateGatePass(ctx context.Context, gp *GatePass) error
	GatePassExistsForDispatch(ctx context.Context, dispatchID id.ID) (bool, error)
}

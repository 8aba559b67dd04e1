package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/domain/dispatch"
)

// Compile-time check that DispatchRepo implements dispatch.Repository.
var _ dispatch.Repository = (*DispatchRepo)(nil)

// DispatchRepo persists dispatches, their items and gate passes.
type DispatchRepo struct {
	*BaseRepo[*dispatch.Dispatch]
	gatePasses *BaseRepo[*dispatch.GatePass]
}

// NewDispatchRepo creates a new dispatch repository.
func NewDispatchRepo(txm *TxManager) *DispatchRepo {
	return &DispatchRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"dispatches",
			ExtractDBColumns[dispatch.Dispatch](),
			[]string{"number"},
			func() *dispatch.Dispatch { return &dispatch.Dispatch{} },
		),
		gatePasses: NewBaseRepo(
			txm,
			"gate_passes",
			ExtractDBColumns[dispatch.GatePass](),
			[]string{"number"},
			func() *dispatch.GatePass { return &dispatch.GatePass{} },
		),
	}
}

// Create inserts a dispatch, mapping number collisions to
// *sequence.DuplicateError.
func (r *DispatchRepo) Create(ctx context.Context, d *dispatch.Dispatch) error {
	if err := r.BaseRepo.Create(ctx, d); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: d.Number}
		}
		return err
	}
	return nil
}

// SaveItems replaces the items of a dispatch.
func (r *DispatchRepo) SaveItems(ctx context.Context, dispatchID id.ID, items []*dispatch.Item) error {
	querier := r.Querier(ctx)

	delQ := r.Builder().
		Delete("dispatch_items").
		Where(squirrel.Eq{"dispatch_id": dispatchID})

	sql, args, err := delQ.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete dispatch items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	insQ := r.Builder().
		Insert("dispatch_items").
		Columns("id", "dispatch_id", "paper_id", "quantity")

	for _, item := range items {
		if id.IsNil(item.ID) {
			item.ID = id.New()
		}
		item.DispatchID = dispatchID
		insQ = insQ.Values(item.ID, item.DispatchID, item.PaperID, item.Quantity)
	}

	sql, args, err = insQ.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert dispatch items: %w", err)
	}

	return nil
}

// GetItems returns the items of a dispatch.
func (r *DispatchRepo) GetItems(ctx context.Context, dispatchID id.ID) ([]*dispatch.Item, error) {
	q := r.Builder().
		Select("id", "dispatch_id", "paper_id", "quantity").
		From("dispatch_items").
		Where(squirrel.Eq{"dispatch_id": dispatchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*dispatch.Item
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get dispatch items: %w", err)
	}
	return items, nil
}

// CreateGatePass inserts a gate pass, mapping number collisions to
// *sequence.DuplicateError.
func (r *DispatchRepo) CreateGatePass(ctx context.Context, gp *dispatch.GatePass) error {
	if err := r.gatePasses.Create(ctx, gp); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: gp.Number}
		}
		return err
	}
	return nil
}

// GetGatePass retrieves a gate pass by ID.
func (r *DispatchRepo) GetGatePass(ctx context.Context, gatePassID id.ID) (*dispatch.GatePass, error) {
	return r.gatePasses.GetByID(ctx, gatePassID)
}

// UpdateGatePass modifies a gate pass.
func (r *DispatchRepo) UpdateGatePass(ctx context.Context, gp *dispatch.GatePass) error {
	return r.gatePasses.Update(ctx, gp)
}

// GatePassExistsForDispatch enforces the one-gate-pass-per-dispatch rule.
func (r *DispatchRepo) GatePassExistsForDispatch(ctx context.Context, dispatchID id.ID) (bool, error) {
	q := r.gatePasses.Builder().
		Select("1").
		From("gate_passes").
		Where(squirrel.Eq{"dispatch_id": dispatchID, "deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.gatePasses.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("gate pass exists: %w", err)
	}
	return true, nil
}

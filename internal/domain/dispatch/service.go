package dispatch

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/internal/domain/production"
	"milltrack/pkg/logger"
)

// PaperGetter exposes the production papers a dispatch draws from.
// Satisfied by production.Service.
type PaperGetter interface {
	GetPaper(ctx context.Context, paperID id.ID) (*production.Paper, error)
}

// Service provides business operations for dispatches and gate passes.
type Service struct {
	repo      Repository
	papers    PaperGetter
	issuer    *sequence.Issuer
	txManager tx.Manager
}

// NewService creates a new dispatch service.
func NewService(repo Repository, papers PaperGetter, issuer *sequence.Issuer, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		papers:    papers,
		issuer:    issuer,
		txManager: txManager,
	}
}

// Create creates a dispatch note over ready papers, issuing the next
// DSP- number.
func (s *Service) Create(ctx context.Context, d *Dispatch) error {
	if err := d.Validate(ctx); err != nil {
		return err
	}

	for _, item := range d.Items {
		p, err := s.papers.GetPaper(ctx, item.PaperID)
		if err != nil {
			return err
		}
		if p.Status != production.StatusReadyForDispatch {
			return apperror.NewBusinessRule(apperror.CodeNotReadyForDispatch, "paper is not ready for dispatch").
				WithDetail("paper", p.Number).
				WithDetail("status", p.Status)
		}
	}

	d.CreatedBy = appctx.GetUserID(ctx)
	d.UpdatedBy = d.CreatedBy
	if d.Status == "" {
		d.Status = StatusPending
	}

	persist := func(ctx context.Context, number string) error {
		d.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, d); err != nil {
				return err
			}
			return s.repo.SaveItems(ctx, d.ID, d.Items)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.Dispatches, persist)
	if err != nil {
		return domain.WrapIssueError("dispatch", err)
	}
	d.Number = number

	logger.Info(ctx, "dispatch created", "id", d.ID, "number", d.Number)
	return nil
}

// GetByID retrieves a dispatch with items.
func (s *Service) GetByID(ctx context.Context, dispatchID id.ID) (*Dispatch, error) {
	d, err := s.repo.GetByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	d.Items = items
	return d, nil
}

// UpdateStatus moves a dispatch along its workflow.
func (s *Service) UpdateStatus(ctx context.Context, dispatchID id.ID, to string) (*Dispatch, error) {
	d, err := s.repo.GetByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(d.Status, to) {
		return nil, apperror.NewInvalidStatusTransition("dispatch", d.Status, to)
	}

	d.Status = to
	d.UpdatedBy = appctx.GetUserID(ctx)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List retrieves dispatches with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Dispatch], error) {
	return s.repo.List(ctx, filter)
}

// IssueGatePass issues a gate pass for an approved dispatch, issuing
// the next GP- number. One gate pass per dispatch.
func (s *Service) IssueGatePass(ctx context.Context, dispatchID id.ID) (*GatePass, error) {
	d, err := s.repo.GetByID(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if d.Status != StatusApproved {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "gate pass requires an approved dispatch").
			WithDetail("status", d.Status)
	}

	exists, err := s.repo.GatePassExistsForDispatch(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("dispatch already has a gate pass")
	}

	gp := NewGatePass()
	gp.DispatchID = dispatchID
	gp.CreatedBy = appctx.GetUserID(ctx)
	gp.UpdatedBy = gp.CreatedBy

	persist := func(ctx context.Context, number string) error {
		gp.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.CreateGatePass(ctx, gp)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.GatePasses, persist)
	if err != nil {
		return nil, domain.WrapIssueError("gate pass", err)
	}
	gp.Number = number

	logger.Info(ctx, "gate pass issued", "id", gp.ID, "number", gp.Number)
	return gp, nil
}

// VerifyGatePass marks a gate pass as verified at the gate.
func (s *Service) VerifyGatePass(ctx context.Context, gatePassID id.ID) (*GatePass, error) {
	gp, err := s.repo.GetGatePass(ctx, gatePassID)
	if err != nil {
		return nil, err
	}
	if gp.Verified {
		return nil, apperror.NewConflict("gate pass is already verified")
	}

	now := time.Now().UTC()
	gp.Verified = true
	gp.VerifiedBy = appctx.GetUsername(ctx)
	gp.VerifiedAt = &now
	gp.UpdatedBy = appctx.GetUserID(ctx)

	if err := s.repo.UpdateGatePass(ctx, gp); err != nil {
		return nil, err
	}

	logger.Info(ctx, "gate pass verified", "id", gp.ID, "number", gp.Number)
	return gp, nil
}

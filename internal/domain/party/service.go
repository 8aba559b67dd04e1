package party

import (
	"context"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/pkg/logger"
)

// Service provides business operations for parties.
type Service struct {
	repo      Repository
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Party]
}

// NewService creates a new party service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Party](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Party] {
	return s.hooks
}

// Create creates a new party.
func (s *Service) Create(ctx context.Context, p *Party) error {
	if err := s.hooks.RunBeforeCreate(ctx, p); err != nil {
		return err
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByPhone(ctx, p.Phone)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("party", "phone", p.Phone)
	}

	p.CreatedBy = appctx.GetUserID(ctx)
	p.UpdatedBy = p.CreatedBy

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterCreate(ctx, p); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "party created", "id", p.ID, "name", p.Name)
	return nil
}

// GetByID retrieves a party.
func (s *Service) GetByID(ctx context.Context, partyID id.ID) (*Party, error) {
	return s.repo.GetByID(ctx, partyID)
}

// Update updates a party.
func (s *Service) Update(ctx context.Context, p *Party) error {
	if err := s.hooks.RunBeforeUpdate(ctx, p); err != nil {
		return err
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}

	p.UpdatedBy = appctx.GetUserID(ctx)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, p); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// Delete soft-deletes a party.
func (s *Service) Delete(ctx context.Context, partyID id.ID) error {
	p, err := s.repo.GetByID(ctx, partyID)
	if err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, p); err != nil {
		return err
	}

	if err := s.repo.SetDeletionMark(ctx, partyID, true); err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, p); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}
	return nil
}

// List retrieves parties with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Party], error) {
	return s.repo.List(ctx, filter)
}

package measurement

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/pkg/logger"
)

// Service provides business operations for measurements.
type Service struct {
	repo      Repository
	issuer    *sequence.Issuer
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Measurement]
}

// NewService creates a new measurement service.
func NewService(repo Repository, issuer *sequence.Issuer, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		issuer:    issuer,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Measurement](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Measurement] {
	return s.hooks
}

// Create creates a new measurement, issuing the next MP number.
// Each issuance attempt persists in its own transaction so that a
// duplicate collision leaves a clean slate for the retry.
func (s *Service) Create(ctx context.Context, m *Measurement) error {
	if err := s.hooks.RunBeforeCreate(ctx, m); err != nil {
		return err
	}

	if err := m.Validate(ctx); err != nil {
		return err
	}

	m.CreatedBy = appctx.GetUserID(ctx)
	m.UpdatedBy = m.CreatedBy
	if m.MeasuredBy == "" {
		m.MeasuredBy = appctx.GetUsername(ctx)
	}

	persist := func(ctx context.Context, number string) error {
		m.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Create(ctx, m); err != nil {
				return err
			}
			return s.repo.SaveItems(ctx, m.ID, m.Items)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.Measurements, persist)
	if err != nil {
		return domain.WrapIssueError("measurement", err)
	}
	m.Number = number

	if err := s.hooks.RunAfterCreate(ctx, m); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "measurement created", "id", m.ID, "number", m.Number)
	return nil
}

// GetByID retrieves a measurement with items.
func (s *Service) GetByID(ctx context.Context, measurementID id.ID) (*Measurement, error) {
	m, err := s.repo.GetByID(ctx, measurementID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, measurementID)
	if err != nil {
		return nil, err
	}
	m.Items = items
	return m, nil
}

// Update updates a measurement and its items.
// Edits require a remark explaining the change.
func (s *Service) Update(ctx context.Context, m *Measurement) error {
	if err := s.hooks.RunBeforeUpdate(ctx, m); err != nil {
		return err
	}

	if m.EditRemarks == "" {
		return apperror.NewValidation("edit remarks are required when updating a measurement")
	}

	if err := m.Validate(ctx); err != nil {
		return err
	}

	m.UpdatedBy = appctx.GetUserID(ctx)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, m); err != nil {
			return err
		}
		return s.repo.SaveItems(ctx, m.ID, m.Items)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, m); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// Delete soft-deletes a measurement with a mandatory reason.
// The row survives, so its number stays occupied and is never reissued.
func (s *Service) Delete(ctx context.Context, measurementID id.ID, reason string) error {
	if reason == "" {
		return apperror.NewValidation("deletion reason is required")
	}

	m, err := s.repo.GetByID(ctx, measurementID)
	if err != nil {
		return err
	}

	if err := s.hooks.RunBeforeDelete(ctx, m); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, measurementID, reason, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, m); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	logger.Info(ctx, "measurement deleted", "id", measurementID, "reason", reason)
	return nil
}

// List retrieves measurements with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Measurement], error) {
	return s.repo.List(ctx, filter)
}

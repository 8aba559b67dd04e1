package production

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

// Service provides business operations for production papers and schedules.
type Service struct {
	repo      Repository
	schedules ScheduleRepository
	issuer    *sequence.Issuer
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Paper]
}

// NewService creates a new production service.
func NewService(repo Repository, schedules ScheduleRepository, issuer *sequence.Issuer, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		issuer:    issuer,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Paper](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Paper] {
	return s.hooks
}

// CreatePaper creates a draft paper, issuing the next number of the
// category's series (S, F or P).
func (s *Service) CreatePaper(ctx context.Context, p *Paper) error {
	if err := s.hooks.RunBeforeCreate(ctx, p); err != nil {
		return err
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}

	p.CreatedBy = appctx.GetUserID(ctx)
	p.UpdatedBy = p.CreatedBy

	persist := func(ctx context.Context, number string) error {
		p.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, p)
		})
	}

	number, err := s.issuer.Issue(ctx, p.NumberClass(), persist)
	if err != nil {
		return domain.WrapIssueError("paper", err)
	}
	p.Number = number

	if err := s.hooks.RunAfterCreate(ctx, p); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "paper created",
		"id", p.ID,
		"number", p.Number,
		"category", p.ProductCategory)
	return nil
}

// GetPaper retrieves a paper.
func (s *Service) GetPaper(ctx context.Context, paperID id.ID) (*Paper, error) {
	return s.repo.GetByID(ctx, paperID)
}

// UpdatePaper updates paper fields other than status.
func (s *Service) UpdatePaper(ctx context.Context, p *Paper) error {
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

// UpdateStatus moves a paper along the production workflow.
func (s *Service) UpdateStatus(ctx context.Context, paperID id.ID, to string) (*Paper, error) {
	p, err := s.repo.GetByID(ctx, paperID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(p.Status, to) {
		return nil, apperror.NewInvalidStatusTransition("paper", p.Status, to)
	}

	from := p.Status
	p.Status = to
	p.UpdatedBy = appctx.GetUserID(ctx)
	if to == StatusInProduction && p.ProductionStart == nil {
		now := time.Now().UTC()
		p.ProductionStart = &now
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if err := s.hooks.RunAfterUpdate(ctx, p); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "paper status changed",
		"id", p.ID,
		"number", p.Number,
		"from", from,
		"to", to)
	return p, nil
}

// ListPapers retrieves papers with filtering.
func (s *Service) ListPapers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Paper], error) {
	return s.repo.List(ctx, filter)
}

// DeletePaper marks a draft paper as deleted. Papers past draft keep
// their place in the workflow and cannot be removed.
func (s *Service) DeletePaper(ctx context.Context, paperID id.ID) error {
	p, err := s.repo.GetByID(ctx, paperID)
	if err != nil {
		return err
	}
	if p.Status != StatusDraft {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "only draft papers can be deleted")
	}
	return s.repo.SetDeletionMark(ctx, paperID, true)
}

// Dashboard returns paper counts per status.
func (s *Service) Dashboard(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

// --- Scheduling ---

// SchedulePaper plans an approved paper into a department.
func (s *Service) SchedulePaper(ctx context.Context, sched *Schedule) error {
	if err := sched.Validate(ctx); err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, sched.PaperID)
	if err != nil {
		return err
	}
	if p.Status != StatusApproved && p.Status != StatusActive {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "only approved papers can be scheduled").
			WithDetail("status", p.Status)
	}

	sched.CreatedBy = appctx.GetUserID(ctx)
	sched.UpdatedBy = sched.CreatedBy

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.schedules.Create(ctx, sched)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "paper scheduled",
		"paper_id", sched.PaperID,
		"department", sched.Department,
		"date", sched.ScheduledDate)
	return nil
}

// UpdateScheduleStatus moves a schedule entry along its workflow.
func (s *Service) UpdateScheduleStatus(ctx context.Context, scheduleID id.ID, to string) (*Schedule, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if !CanTransitionSchedule(sched.Status, to) {
		return nil, apperror.NewInvalidStatusTransition("schedule", sched.Status, to)
	}

	sched.Status = to
	sched.UpdatedBy = appctx.GetUserID(ctx)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.schedules.Update(ctx, sched)
	})
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// PendingForScheduling returns approved papers without a schedule.
func (s *Service) PendingForScheduling(ctx context.Context) ([]*Paper, error) {
	return s.repo.PendingForScheduling(ctx)
}

// DepartmentSchedule returns a department's schedule within a window.
func (s *Service) DepartmentSchedule(ctx context.Context, department string, from, to time.Time) ([]*Schedule, error) {
	return s.schedules.ListByDepartment(ctx, department, from, to)
}

package qc

import (
	"context"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/pkg/logger"
)

// Service provides business operations for quality control.
type Service struct {
	repo      Repository
	issuer    *sequence.Issuer
	txManager tx.Manager
}

// NewService creates a new QC service.
func NewService(repo Repository, issuer *sequence.Issuer, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		issuer:    issuer,
		txManager: txManager,
	}
}

// CreateCheck records an inspection, issuing the next QC number.
// A rework result also opens a rework order in the same request.
func (s *Service) CreateCheck(ctx context.Context, c *Check) (*Rework, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	c.CreatedBy = appctx.GetUserID(ctx)
	c.UpdatedBy = c.CreatedBy
	if c.CheckedBy == "" {
		c.CheckedBy = appctx.GetUsername(ctx)
	}

	persist := func(ctx context.Context, number string) error {
		c.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.CreateCheck(ctx, c)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.QualityChecks, persist)
	if err != nil {
		return nil, domain.WrapIssueError("quality check", err)
	}
	c.Number = number

	logger.Info(ctx, "quality check recorded",
		"id", c.ID,
		"number", c.Number,
		"result", c.Result)

	if c.Result != ResultRework {
		return nil, nil
	}

	rework := NewRework()
	rework.CheckID = c.ID
	rework.PaperID = c.PaperID
	rework.Reason = "flagged during quality check " + c.Number
	if err := s.CreateRework(ctx, rework); err != nil {
		return nil, err
	}
	return rework, nil
}

// GetCheck retrieves a quality check.
func (s *Service) GetCheck(ctx context.Context, checkID id.ID) (*Check, error) {
	return s.repo.GetCheck(ctx, checkID)
}

// ListChecks retrieves quality checks with filtering.
func (s *Service) ListChecks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Check], error) {
	return s.repo.ListChecks(ctx, filter)
}

// CreateRework opens a rework order, issuing the next RW number.
func (s *Service) CreateRework(ctx context.Context, r *Rework) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}

	r.CreatedBy = appctx.GetUserID(ctx)
	r.UpdatedBy = r.CreatedBy

	persist := func(ctx context.Context, number string) error {
		r.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.CreateRework(ctx, r)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.ReworkOrders, persist)
	if err != nil {
		return domain.WrapIssueError("rework order", err)
	}
	r.Number = number

	logger.Info(ctx, "rework order opened", "id", r.ID, "number", r.Number)
	return nil
}

// CompleteRework closes a rework order.
func (s *Service) CompleteRework(ctx context.Context, reworkID id.ID) (*Rework, error) {
	r, err := s.repo.GetRework(ctx, reworkID)
	if err != nil {
		return nil, err
	}
	if r.Status == ReworkStatusDone {
		return nil, apperror.NewConflict("rework order is already done")
	}

	r.Status = ReworkStatusDone
	r.UpdatedBy = appctx.GetUserID(ctx)
	if err := s.repo.UpdateRework(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListReworks retrieves rework orders with filtering.
func (s *Service) ListReworks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Rework], error) {
	return s.repo.ListReworks(ctx, filter)
}

// IssueCertificate issues a QC certificate for a passed check.
// One certificate per paper.
func (s *Service) IssueCertificate(ctx context.Context, checkID id.ID) (*Certificate, error) {
	check, err := s.repo.GetCheck(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check.Result != ResultPass {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "certificate requires a passed quality check").
			WithDetail("result", check.Result)
	}

	exists, err := s.repo.CertificateExistsForPaper(ctx, check.PaperID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflict("paper already has a certificate")
	}

	cert := NewCertificate()
	cert.PaperID = check.PaperID
	cert.CheckID = check.ID
	cert.CreatedBy = appctx.GetUserID(ctx)
	cert.UpdatedBy = cert.CreatedBy

	persist := func(ctx context.Context, number string) error {
		cert.Number = number
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.CreateCertificate(ctx, cert)
		})
	}

	number, err := s.issuer.Issue(ctx, sequence.QCCertificates, persist)
	if err != nil {
		return nil, domain.WrapIssueError("certificate", err)
	}
	cert.Number = number

	logger.Info(ctx, "qc certificate issued", "id", cert.ID, "number", cert.Number)
	return cert, nil
}

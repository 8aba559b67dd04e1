package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/domain"
	"milltrack/internal/domain/qc"
)

// Compile-time check that QCRepo implements qc.Repository.
var _ qc.Repository = (*QCRepo)(nil)

// QCRepo persists quality checks, rework orders and QC certificates.
// Three document kinds, three tables, one repository: the qc service
// always works with them together.
type QCRepo struct {
	checks  *BaseRepo[*qc.Check]
	reworks *BaseRepo[*qc.Rework]
	certs   *BaseRepo[*qc.Certificate]
}

// NewQCRepo creates a new QC repository.
func NewQCRepo(txm *TxManager) *QCRepo {
	return &QCRepo{
		checks: NewBaseRepo(
			txm,
			"quality_checks",
			ExtractDBColumns[qc.Check](),
			[]string{"number", "checked_by"},
			func() *qc.Check { return &qc.Check{} },
		),
		reworks: NewBaseRepo(
			txm,
			"rework_orders",
			ExtractDBColumns[qc.Rework](),
			[]string{"number", "reason"},
			func() *qc.Rework { return &qc.Rework{} },
		),
		certs: NewBaseRepo(
			txm,
			"qc_certificates",
			ExtractDBColumns[qc.Certificate](),
			[]string{"number"},
			func() *qc.Certificate { return &qc.Certificate{} },
		),
	}
}

// CreateCheck inserts a quality check, mapping number collisions to
// *sequence.DuplicateError.
func (r *QCRepo) CreateCheck(ctx context.Context, c *qc.Check) error {
	if err := r.checks.Create(ctx, c); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: c.Number}
		}
		return err
	}
	return nil
}

// GetCheck retrieves a quality check by ID.
func (r *QCRepo) GetCheck(ctx context.Context, checkID id.ID) (*qc.Check, error) {
	return r.checks.GetByID(ctx, checkID)
}

// ListChecks retrieves quality checks with filtering and pagination.
func (r *QCRepo) ListChecks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*qc.Check], error) {
	return r.checks.List(ctx, filter)
}

// CreateRework inserts a rework order, mapping number collisions to
// *sequence.DuplicateError.
func (r *QCRepo) CreateRework(ctx context.Context, rw *qc.Rework) error {
	if err := r.reworks.Create(ctx, rw); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: rw.Number}
		}
		return err
	}
	return nil
}

// GetRework retrieves a rework order by ID.
func (r *QCRepo) GetRework(ctx context.Context, reworkID id.ID) (*qc.Rework, error) {
	return r.reworks.GetByID(ctx, reworkID)
}

// UpdateRework modifies a rework order.
func (r *QCRepo) UpdateRework(ctx context.Context, rw *qc.Rework) error {
	return r.reworks.Update(ctx, rw)
}

// ListReworks retrieves rework orders with filtering and pagination.
func (r *QCRepo) ListReworks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*qc.Rework], error) {
	return r.reworks.List(ctx, filter)
}

// CreateCertificate inserts a QC certificate, mapping number collisions
// to *sequence.DuplicateError.
func (r *QCRepo) CreateCertificate(ctx context.Context, c *qc.Certificate) error {
	if err := r.certs.Create(ctx, c); err != nil {
		if IsUniqueViolation(err) {
			return &sequence.DuplicateError{Number: c.Number}
		}
		return err
	}
	return nil
}

// GetCertificate retrieves a QC certificate by ID.
func (r *QCRepo) GetCertificate(ctx context.Context, certID id.ID) (*qc.Certificate, error) {
	return r.certs.GetByID(ctx, certID)
}

// CertificateExistsForPaper enforces the one-certificate-per-paper rule.
func (r *QCRepo) CertificateExistsForPaper(ctx context.Context, paperID id.ID) (bool, error) {
	q := r.certs.Builder().
		Select("1").
		From("qc_certificates").
		Where(squirrel.Eq{"paper_id": paperID, "deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.certs.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("certificate exists: %w", err)
	}
	return true, nil
}

package qc

import (
	"context"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for QC persistence.
//
// The Create methods must return a *sequence.DuplicateError when the
// generated number collides with an existing row.
type Repository interface {
	CreateCheck(ctx context.Context, c *Check) error
	GetCheck(ctx context.Context, checkID id.ID) (*Check, error)
	ListChecks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Check], error)

	CreateRework(ctx context.Context, r *Rework) error
	GetRework(ctx context.Context, reworkID id.ID) (*Rework, error)
	UpdateRework(ctx context.Context, r *Rework) error
	ListReworks(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Rework], error)

	CreateCertificate(ctx context.Context, c *Certificate) error
	GetCertificate(ctx context.Context, certID id.ID) (*Certificate, error)
	CertificateExistsForPaper(ctx context.Context, paperID id.ID) (bool, error)
}

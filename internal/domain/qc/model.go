// Package qc provides quality checks, rework orders and QC certificates.
package qc

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
	"milltrack/internal/core/id"
)

// Quality check results.
const (
	ResultPass   = "pass"
	ResultFail   = "fail"
	ResultRework = "rework"
)

// Check is a quality inspection of a completed paper (QC series).
type Check struct {
	entity.Document

	PaperID   id.ID  `db:"paper_id" json:"paperId"`
	Result    string `db:"result" json:"result"`
	CheckedBy string `db:"checked_by" json:"checkedBy"`
}

// NewCheck creates a Check with generated ID dated now.
func NewCheck() *Check {
	return &Check{Document: entity.NewDocument()}
}

// Validate checks inspection invariants.
func (c *Check) Validate(_ context.Context) error {
	if id.IsNil(c.PaperID) {
		return apperror.NewValidation("quality check paper is required")
	}
	switch c.Result {
	case ResultPass, ResultFail, ResultRework:
	default:
		return apperror.NewValidation("result must be pass, fail or rework").
			WithDetail("result", c.Result)
	}
	return nil
}

// Rework order statuses.
const (
	ReworkStatusOpen       = "open"
	ReworkStatusInProgress = "in_progress"
	ReworkStatusDone       = "done"
)

// Rework is an order to redo failed work (RW series).
type Rework struct {
	entity.Document

	CheckID id.ID  `db:"check_id" json:"checkId"`
	PaperID id.ID  `db:"paper_id" json:"paperId"`
	Reason  string `db:"reason" json:"reason"`
	Status  string `db:"status" json:"status"`
}

// NewRework creates an open Rework with generated ID.
func NewRework() *Rework {
	return &Rework{
		Document: entity.NewDocument(),
		Status:   ReworkStatusOpen,
	}
}

// Validate checks rework invariants.
func (r *Rework) Validate(_ context.Context) error {
	if id.IsNil(r.CheckID) {
		return apperror.NewValidation("rework quality check is required")
	}
	if r.Reason == "" {
		return apperror.NewValidation("rework reason is required")
	}
	return nil
}

// Certificate attests that a paper passed quality control (QCCERT series).
type Certificate struct {
	entity.Document

	PaperID  id.ID     `db:"paper_id" json:"paperId"`
	CheckID  id.ID     `db:"check_id" json:"checkId"`
	IssuedAt time.Time `db:"issued_at" json:"issuedAt"`
}

// NewCertificate creates a Certificate with generated ID.
func NewCertificate() *Certificate {
	return &Certificate{
		Document: entity.NewDocument(),
		IssuedAt: time.Now().UTC(),
	}
}

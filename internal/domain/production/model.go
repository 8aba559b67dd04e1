// Package production provides production papers (S/F/P series) and
// their scheduling.
package production

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
)

// Paper statuses, in workflow order.
const (
	StatusDraft            = "draft"
	StatusApproved         = "approved"
	StatusActive           = "active"
	StatusInProduction     = "in_production"
	StatusCompleted        = "completed"
	StatusReadyForDispatch = "ready_for_dispatch"
)

// allowedTransitions maps each status to the statuses reachable from it.
var allowedTransitions = map[string][]string{
	StatusDraft:        {StatusApproved},
	StatusApproved:     {StatusActive},
	StatusActive:       {StatusInProduction},
	StatusInProduction: {StatusCompleted},
	StatusCompleted:    {StatusReadyForDispatch},
}

// CanTransition reports whether a paper may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Paper is a production order for one product category. Its number
// series depends on the category: S for shutters, F for frames, P for
// everything else.
type Paper struct {
	entity.Document

	PartyID           id.ID      `db:"party_id" json:"partyId"`
	MeasurementID     *id.ID     `db:"measurement_id" json:"measurementId,omitempty"`
	ProductCategory   string     `db:"product_category" json:"productCategory"`
	Status            string     `db:"status" json:"status"`
	MaterialAvailable bool       `db:"material_available" json:"materialAvailable"`
	ExpectedDispatch  *time.Time `db:"expected_dispatch_date" json:"expectedDispatchDate,omitempty"`
	ProductionStart   *time.Time `db:"production_start_date" json:"productionStartDate,omitempty"`
}

// NewPaper creates a draft Paper with generated ID dated now.
func NewPaper() *Paper {
	return &Paper{
		Document: entity.NewDocument(),
		Status:   StatusDraft,
	}
}

// NumberClass returns the numbering series for this paper's category.
func (p *Paper) NumberClass() sequence.Class {
	return sequence.PaperClassFor(p.ProductCategory)
}

// Validate checks paper invariants.
func (p *Paper) Validate(_ context.Context) error {
	if id.IsNil(p.PartyID) {
		return apperror.NewValidation("paper party is required")
	}
	if p.ProductCategory == "" {
		return apperror.NewValidation("product category is required")
	}
	return nil
}

// Schedule statuses.
const (
	ScheduleStatusScheduled    = "scheduled"
	ScheduleStatusInProduction = "in_production"
	ScheduleStatusCompleted    = "completed"
)

// Schedule plans an approved paper into a department on a date.
type Schedule struct {
	entity.BaseDocument

	PaperID       id.ID     `db:"paper_id" json:"paperId"`
	Department    string    `db:"department" json:"department"`
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduledDate"`
	Status        string    `db:"status" json:"status"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
}

// NewSchedule creates a Schedule with generated ID.
func NewSchedule() *Schedule {
	return &Schedule{
		BaseDocument: entity.NewBaseDocument(),
		Status:       ScheduleStatusScheduled,
	}
}

// Validate checks schedule invariants.
func (s *Schedule) Validate(_ context.Context) error {
	if id.IsNil(s.PaperID) {
		return apperror.NewValidation("schedule paper is required")
	}
	if s.Department == "" {
		return apperror.NewValidation("schedule department is required")
	}
	if s.ScheduledDate.IsZero() {
		return apperror.NewValidation("scheduled date is required")
	}
	return nil
}

// scheduleTransitions mirrors the schedule workflow.
var scheduleTransitions = map[string][]string{
	ScheduleStatusScheduled:    {ScheduleStatusInProduction},
	ScheduleStatusInProduction: {ScheduleStatusCompleted},
}

// CanTransitionSchedule reports whether a schedule status change is allowed.
func CanTransitionSchedule(from, to string) bool {
	for _, next := range scheduleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

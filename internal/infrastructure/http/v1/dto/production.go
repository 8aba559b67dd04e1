package dto

import (
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/production"
)

// PaperRequest creates a production paper.
type PaperRequest struct {
	PartyID           string     `json:"partyId" binding:"required"`
	MeasurementID     string     `json:"measurementId"`
	ProductCategory   string     `json:"productCategory" binding:"required"`
	MaterialAvailable bool       `json:"materialAvailable"`
	ExpectedDispatch  *time.Time `json:"expectedDispatchDate"`
	Remarks           string     `json:"remarks"`
}

// ToModel builds a new paper entity.
func (r PaperRequest) ToModel() (*production.Paper, error) {
	partyID, err := id.Parse(r.PartyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid partyId").WithDetail("partyId", r.PartyID)
	}

	p := production.NewPaper()
	p.PartyID = partyID
	p.ProductCategory = r.ProductCategory
	p.MaterialAvailable = r.MaterialAvailable
	p.ExpectedDispatch = r.ExpectedDispatch
	p.Remarks = r.Remarks

	if r.MeasurementID != "" {
		mID, err := id.Parse(r.MeasurementID)
		if err != nil {
			return nil, apperror.NewValidation("invalid measurementId").WithDetail("measurementId", r.MeasurementID)
		}
		p.MeasurementID = &mID
	}
	return p, nil
}

// PaperUpdateRequest edits non-status paper fields.
type PaperUpdateRequest struct {
	MaterialAvailable *bool      `json:"materialAvailable"`
	ExpectedDispatch  *time.Time `json:"expectedDispatchDate"`
	Remarks           *string    `json:"remarks"`
}

// Apply copies set fields onto an existing paper.
func (r PaperUpdateRequest) Apply(p *production.Paper) {
	if r.MaterialAvailable != nil {
		p.MaterialAvailable = *r.MaterialAvailable
	}
	if r.ExpectedDispatch != nil {
		p.ExpectedDispatch = r.ExpectedDispatch
	}
	if r.Remarks != nil {
		p.Remarks = *r.Remarks
	}
}

// ScheduleRequest plans a paper into a department.
type ScheduleRequest struct {
	PaperID       string    `json:"paperId" binding:"required"`
	Department    string    `json:"department" binding:"required"`
	ScheduledDate time.Time `json:"scheduledDate" binding:"required"`
	Notes         string    `json:"notes"`
}

// ToModel builds a new schedule entity.
func (r ScheduleRequest) ToModel() (*production.Schedule, error) {
	paperID, err := id.Parse(r.PaperID)
	if err != nil {
		return nil, apperror.NewValidation("invalid paperId").WithDetail("paperId", r.PaperID)
	}

	s := production.NewSchedule()
	s.PaperID = paperID
	s.Department = r.Department
	s.ScheduledDate = r.ScheduledDate
	s.Notes = r.Notes
	return s, nil
}

// DepartmentScheduleQuery bounds a department schedule request.
type DepartmentScheduleQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// Window parses the query into a time range, defaulting to the coming week.
func (q DepartmentScheduleQuery) Window() (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 7)

	var err error
	if q.From != "" {
		if from, err = time.Parse(time.RFC3339, q.From); err != nil {
			return from, to, apperror.NewValidation("from must be RFC3339")
		}
	}
	if q.To != "" {
		if to, err = time.Parse(time.RFC3339, q.To); err != nil {
			return from, to, apperror.NewValidation("to must be RFC3339")
		}
	}
	return from, to, nil
}

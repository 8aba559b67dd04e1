package dto

import (
	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/qc"
)

// CheckRequest records a quality inspection.
type CheckRequest struct {
	PaperID   string `json:"paperId" binding:"required"`
	Result    string `json:"result" binding:"required"`
	CheckedBy string `json:"checkedBy"`
	Remarks   string `json:"remarks"`
}

// ToModel builds a new quality check entity.
func (r CheckRequest) ToModel() (*qc.Check, error) {
	paperID, err := id.Parse(r.PaperID)
	if err != nil {
		return nil, apperror.NewValidation("invalid paperId").WithDetail("paperId", r.PaperID)
	}

	c := qc.NewCheck()
	c.PaperID = paperID
	c.Result = r.Result
	c.CheckedBy = r.CheckedBy
	c.Remarks = r.Remarks
	return c, nil
}

// CheckResponse is a recorded inspection, with the rework order it
// opened when the result was rework.
type CheckResponse struct {
	Check  *qc.Check  `json:"check"`
	Rework *qc.Rework `json:"rework,omitempty"`
}

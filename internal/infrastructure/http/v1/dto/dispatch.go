package dto

import (
	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/dispatch"
)

// DispatchItemRequest is one paper included in a dispatch.
type DispatchItemRequest struct {
	PaperID  string `json:"paperId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// DispatchRequest creates a dispatch note.
type DispatchRequest struct {
	PartyID string                `json:"partyId" binding:"required"`
	Remarks string                `json:"remarks"`
	Items   []DispatchItemRequest `json:"items" binding:"required"`
}

// ToModel builds a new dispatch entity.
func (r DispatchRequest) ToModel() (*dispatch.Dispatch, error) {
	partyID, err := id.Parse(r.PartyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid partyId").WithDetail("partyId", r.PartyID)
	}

	d := dispatch.New()
	d.PartyID = partyID
	d.Remarks = r.Remarks
	for _, it := range r.Items {
		paperID, err := id.Parse(it.PaperID)
		if err != nil {
			return nil, apperror.NewValidation("invalid paperId").WithDetail("paperId", it.PaperID)
		}
		d.Items = append(d.Items, &dispatch.Item{
			PaperID:  paperID,
			Quantity: it.Quantity,
		})
	}
	return d, nil
}

// Package party provides the customer/party catalog.
package party

import (
	"context"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
)

// Party is a customer the plant manufactures for.
type Party struct {
	entity.BaseDocument

	Name          string `db:"name" json:"name"`
	ContactPerson string `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email,omitempty"`
	Address       string `db:"address" json:"address,omitempty"`
	City          string `db:"city" json:"city,omitempty"`
	State         string `db:"state" json:"state,omitempty"`
	Pincode       string `db:"pincode" json:"pincode,omitempty"`
	GSTNumber     string `db:"gst_number" json:"gstNumber,omitempty"`
	Notes         string `db:"notes" json:"notes,omitempty"`
}

// New creates a Party with generated ID and timestamps.
func New() *Party {
	return &Party{BaseDocument: entity.NewBaseDocument()}
}

// Validate checks party invariants.
func (p *Party) Validate(_ context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("party name is required")
	}
	if p.Phone == "" {
		return apperror.NewValidation("party phone is required")
	}
	return nil
}

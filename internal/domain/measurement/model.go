// Package measurement provides site measurement documents (MP series).
package measurement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
	"milltrack/internal/core/id"
)

// Measurement is a site measurement captured by a measurement captain.
// Its number belongs to the MP series.
type Measurement struct {
	entity.Document

	PartyID      id.ID      `db:"party_id" json:"partyId"`
	SiteAddress  string     `db:"site_address" json:"siteAddress"`
	MeasuredBy   string     `db:"measured_by" json:"measuredBy,omitempty"`
	EditRemarks  string     `db:"edit_remarks" json:"editRemarks,omitempty"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	DeleteReason string     `db:"delete_reason" json:"deleteReason,omitempty"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is a single measured opening.
type Item struct {
	ID            id.ID           `db:"id" json:"id"`
	MeasurementID id.ID           `db:"measurement_id" json:"measurementId"`
	Location      string          `db:"location" json:"location"`
	ProductType   string          `db:"product_type" json:"productType,omitempty"`
	Width         decimal.Decimal `db:"width" json:"width"`
	Height        decimal.Decimal `db:"height" json:"height"`
	Quantity      int             `db:"quantity" json:"quantity"`
	Remarks       string          `db:"remarks" json:"remarks,omitempty"`
}

// New creates a Measurement with generated ID dated now.
func New() *Measurement {
	return &Measurement{Document: entity.NewDocument()}
}

// Validate checks measurement invariants.
func (m *Measurement) Validate(_ context.Context) error {
	if id.IsNil(m.PartyID) {
		return apperror.NewValidation("measurement party is required")
	}
	if m.SiteAddress == "" {
		return apperror.NewValidation("site address is required")
	}
	if len(m.Items) == 0 {
		return apperror.NewValidation("measurement needs at least one item")
	}
	for _, item := range m.Items {
		if item.Width.LessThanOrEqual(decimal.Zero) || item.Height.LessThanOrEqual(decimal.Zero) {
			return apperror.NewValidation("item dimensions must be positive").
				WithDetail("location", item.Location)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("location", item.Location)
		}
	}
	return nil
}

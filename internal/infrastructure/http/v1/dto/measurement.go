package dto

import (
	"github.com/shopspring/decimal"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/measurement"
)

// MeasurementItemRequest is one measured opening.
type MeasurementItemRequest struct {
	Location    string          `json:"location" binding:"required"`
	ProductType string          `json:"productType"`
	Width       decimal.Decimal `json:"width" binding:"required"`
	Height      decimal.Decimal `json:"height" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	Remarks     string          `json:"remarks"`
}

// MeasurementRequest creates a measurement.
type MeasurementRequest struct {
	PartyID     string                   `json:"partyId" binding:"required"`
	SiteAddress string                   `json:"siteAddress" binding:"required"`
	MeasuredBy  string                   `json:"measuredBy"`
	Remarks     string                   `json:"remarks"`
	Items       []MeasurementItemRequest `json:"items" binding:"required"`
}

// ToModel builds a new measurement entity.
func (r MeasurementRequest) ToModel() (*measurement.Measurement, error) {
	partyID, err := id.Parse(r.PartyID)
	if err != nil {
		return nil, apperror.NewValidation("invalid partyId").WithDetail("partyId", r.PartyID)
	}

	m := measurement.New()
	m.PartyID = partyID
	m.SiteAddress = r.SiteAddress
	m.MeasuredBy = r.MeasuredBy
	m.Remarks = r.Remarks
	for _, it := range r.Items {
		m.Items = append(m.Items, &measurement.Item{
			Location:    it.Location,
			ProductType: it.ProductType,
			Width:       it.Width,
			Height:      it.Height,
			Quantity:    it.Quantity,
			Remarks:     it.Remarks,
		})
	}
	return m, nil
}

// MeasurementUpdateRequest edits a measurement. EditRemarks is mandatory.
type MeasurementUpdateRequest struct {
	SiteAddress string                   `json:"siteAddress" binding:"required"`
	MeasuredBy  string                   `json:"measuredBy"`
	Remarks     string                   `json:"remarks"`
	EditRemarks string                   `json:"editRemarks" binding:"required"`
	Items       []MeasurementItemRequest `json:"items" binding:"required"`
}

// Apply copies request fields onto an existing measurement.
func (r MeasurementUpdateRequest) Apply(m *measurement.Measurement) {
	m.SiteAddress = r.SiteAddress
	if r.MeasuredBy != "" {
		m.MeasuredBy = r.MeasuredBy
	}
	m.Remarks = r.Remarks
	m.EditRemarks = r.EditRemarks

	m.Items = m.Items[:0]
	for _, it := range r.Items {
		m.Items = append(m.Items, &measurement.Item{
			Location:    it.Location,
			ProductType: it.ProductType,
			Width:       it.Width,
			Height:      it.Height,
			Quantity:    it.Quantity,
			Remarks:     it.Remarks,
		})
	}
}

// DeleteRequest carries the mandatory deletion reason.
type DeleteRequest struct {
	Reason string `json:"reason" binding:"required"`
}

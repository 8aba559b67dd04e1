package dto

import (
	"milltrack/internal/domain/party"
)

// PartyRequest creates or updates a party.
type PartyRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	GSTNumber     string `json:"gstNumber"`
	Notes         string `json:"notes"`
}

// ToModel builds a new party entity.
func (r PartyRequest) ToModel() *party.Party {
	p := party.New()
	r.Apply(p)
	return p
}

// Apply copies request fields onto an existing party.
func (r PartyRequest) Apply(p *party.Party) {
	p.Name = r.Name
	p.ContactPerson = r.ContactPerson
	p.Phone = r.Phone
	p.Email = r.Email
	p.Address = r.Address
	p.City = r.City
	p.State = r.State
	p.Pincode = r.Pincode
	p.GSTNumber = r.GSTNumber
	p.Notes = r.Notes
}

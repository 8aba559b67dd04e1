// Package dispatch provides dispatch notes (DSP- series) and gate
// passes (GP- series).
package dispatch

import (
	"context"
	"time"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
	"milltrack/internal/core/id"
)

// Dispatch statuses.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusDispatched = "dispatched"
)

// Dispatch is a dispatch note over papers ready for dispatch.
type Dispatch struct {
	entity.Document

	PartyID id.ID  `db:"party_id" json:"partyId"`
	Status  string `db:"status" json:"status"`

	Items []*Item `db:"-" json:"items,omitempty"`
}

// Item is one paper included in a dispatch.
type Item struct {
	ID         id.ID `db:"id" json:"id"`
	DispatchID id.ID `db:"dispatch_id" json:"dispatchId"`
	PaperID    id.ID `db:"paper_id" json:"paperId"`
	Quantity   int   `db:"quantity" json:"quantity"`
}

// New creates a pending Dispatch with generated ID dated now.
func New() *Dispatch {
	return &Dispatch{
		Document: entity.NewDocument(),
		Status:   StatusPending,
	}
}

// Validate checks dispatch invariants.
func (d *Dispatch) Validate(_ context.Context) error {
	if id.IsNil(d.PartyID) {
		return apperror.NewValidation("dispatch party is required")
	}
	if len(d.Items) == 0 {
		return apperror.NewValidation("dispatch needs at least one item")
	}
	for _, item := range d.Items {
		if item.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive")
		}
	}
	return nil
}

// dispatchTransitions mirrors the dispatch workflow.
var dispatchTransitions = map[string][]string{
	StatusPending:  {StatusApproved},
	StatusApproved: {StatusDispatched},
}

// CanTransition reports whether a dispatch status change is allowed.
func CanTransition(from, to string) bool {
	for _, next := range dispatchTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GatePass authorizes goods to leave the plant for one dispatch.
type GatePass struct {
	entity.Document

	DispatchID id.ID      `db:"dispatch_id" json:"dispatchId"`
	IssuedAt   time.Time  `db:"issued_at" json:"issuedAt"`
	Verified   bool       `db:"verified" json:"verified"`
	VerifiedBy string     `db:"verified_by" json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `db:"verified_at" json:"verifiedAt,omitempty"`
}

// NewGatePass creates a GatePass with generated ID.
func NewGatePass() *GatePass {
	return &GatePass{
		Document: entity.NewDocument(),
		IssuedAt: time.Now().UTC(),
	}
}

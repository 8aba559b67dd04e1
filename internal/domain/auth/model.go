// Package auth provides users, authentication and per-user serial numbers.
package auth

import (
	"context"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/entity"
)

// User roles.
const (
	RoleAdmin              = "admin"
	RoleMeasurementCaptain = "measurement_captain"
	RoleProductionManager  = "production_manager"
	RoleQCSupervisor       = "qc_supervisor"
	RoleDispatchExecutive  = "dispatch_executive"
	RoleLogisticsManager   = "logistics_manager"
)

// serialIssuingRoles are the roles that consume per-user serial numbers.
// A serial prefix letter must be unique across these roles.
var serialIssuingRoles = map[string]bool{
	RoleMeasurementCaptain: true,
	RoleProductionManager:  true,
}

// IsSerialIssuingRole reports whether the role consumes serial numbers.
func IsSerialIssuingRole(role string) bool {
	return serialIssuingRoles[role]
}

// User is a platform user. SerialPrefix and SerialCounter drive the
// per-user serial number series ({prefix}00001..{prefix}99999).
type User struct {
	entity.BaseDocument

	Username       string  `db:"username" json:"username"`
	Email          string  `db:"email" json:"email,omitempty"`
	FullName       string  `db:"full_name" json:"fullName,omitempty"`
	HashedPassword string  `db:"hashed_password" json:"-"`
	Role           string  `db:"role" json:"role"`
	IsActive       bool    `db:"is_active" json:"isActive"`
	SerialPrefix   *string `db:"serial_prefix" json:"serialPrefix,omitempty"`
	SerialCounter  int64   `db:"serial_counter" json:"serialCounter"`
}

// NewUser creates an active User with generated ID.
func NewUser() *User {
	return &User{
		BaseDocument: entity.NewBaseDocument(),
		IsActive:     true,
	}
}

// Validate checks user invariants.
func (u *User) Validate(_ context.Context) error {
	if u.Username == "" {
		return apperror.NewValidation("username is required")
	}
	if u.Role == "" {
		return apperror.NewValidation("role is required")
	}
	switch u.Role {
	case RoleAdmin, RoleMeasurementCaptain, RoleProductionManager,
		RoleQCSupervisor, RoleDispatchExecutive, RoleLogisticsManager:
	default:
		return apperror.NewValidation("unknown role").WithDetail("role", u.Role)
	}
	return nil
}

// ValidSerialPrefix reports whether s is a single uppercase letter.
func ValidSerialPrefix(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

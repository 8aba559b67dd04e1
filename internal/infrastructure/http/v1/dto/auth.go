package dto

import (
	"time"

	"milltrack/internal/domain/auth"
)

// LoginRequest carries credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and its owner.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role" binding:"required"`
}

// ToModel builds the user entity.
func (r CreateUserRequest) ToModel() *auth.User {
	u := auth.NewUser()
	u.Username = r.Username
	u.Email = r.Email
	u.FullName = r.FullName
	u.Role = r.Role
	return u
}

// AssignSerialPrefixRequest assigns a serial prefix letter.
type AssignSerialPrefixRequest struct {
	Prefix string `json:"prefix" binding:"required"`
}

// SetActiveRequest activates or deactivates a user.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email,omitempty"`
	FullName      string  `json:"fullName,omitempty"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"isActive"`
	SerialPrefix  *string `json:"serialPrefix,omitempty"`
	SerialCounter int64   `json:"serialCounter"`
}

// NewUserResponse maps a user entity to its response.
func NewUserResponse(u *auth.User) UserResponse {
	return UserResponse{
		ID:            u.ID.String(),
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		IsActive:      u.IsActive,
		SerialPrefix:  u.SerialPrefix,
		SerialCounter: u.SerialCounter,
	}
}

// SerialNumberResponse carries one issued serial.
type SerialNumberResponse struct {
	Serial string `json:"serial"`
}

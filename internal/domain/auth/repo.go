package auth

import (
	"context"

	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

// Repository defines the interface for User persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error)

	// GetForUpdate retrieves a user with a row lock. Must run inside a
	// transaction; used for serial counter advancement.
	GetForUpdate(ctx context.Context, userID id.ID) (*User, error)

	// UpdateSerial persists prefix and counter in one statement.
	UpdateSerial(ctx context.Context, userID id.ID, prefix *string, counter int64) error

	// SerialPrefixTaken checks prefix uniqueness across serial-issuing
	// roles, excluding the given user.
	SerialPrefixTaken(ctx context.Context, prefix string, excludeUserID id.ID) (bool, error)
}

package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"milltrack/internal/core/apperror"
	appctx "milltrack/internal/core/context"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/core/tx"
	"milltrack/internal/domain"
	"milltrack/pkg/logger"
)

// Service provides authentication and user management.
type Service struct {
	repo      Repository
	jwt       *JWTService
	txManager tx.Manager
}

// NewService creates a new auth service.
func NewService(repo Repository, jwt *JWTService, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		jwt:       jwt,
		txManager: txManager,
	}
}

// LoginResult carries the issued token and its owner.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, apperror.NewForbidden("user is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "username", u.Username, "role", u.Role)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// CreateUser registers a user (admin operation).
func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	u.HashedPassword = string(hash)
	u.CreatedBy = appctx.GetUserID(ctx)
	u.UpdatedBy = u.CreatedBy

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, u)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "user created", "id", u.ID, "username", u.Username, "role", u.Role)
	return nil
}

// GetUser retrieves a user.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ListUsers retrieves users with filtering.
func (s *Service) ListUsers(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*User], error) {
	return s.repo.List(ctx, filter)
}

// SetActive activates or deactivates a user.
func (s *Service) SetActive(ctx context.Context, userID id.ID, active bool) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	u.IsActive = active
	u.UpdatedBy = appctx.GetUserID(ctx)
	return s.repo.Update(ctx, u)
}

// AssignSerialPrefix assigns a serial prefix letter to a user and resets
// the counter to 0 (admin operation). The letter must be a single
// uppercase character, unique across serial-issuing roles.
func (s *Service) AssignSerialPrefix(ctx context.Context, userID id.ID, prefix string) (*User, error) {
	if !ValidSerialPrefix(prefix) {
		return nil, apperror.NewValidation("serial prefix must be a single uppercase letter").
			WithDetail("prefix", prefix)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsSerialIssuingRole(u.Role) {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "user role does not use serial numbers").
			WithDetail("role", u.Role)
	}

	taken, err := s.repo.SerialPrefixTaken(ctx, prefix, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.NewDuplicate("user", "serial prefix", prefix)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.UpdateSerial(ctx, userID, &prefix, 0)
	})
	if err != nil {
		return nil, err
	}

	u.SerialPrefix = &prefix
	u.SerialCounter = 0

	logger.Info(ctx, "serial prefix assigned", "user_id", userID, "prefix", prefix)
	return u, nil
}

// NextSerialNumber advances the caller's serial counter and returns the
// formatted serial. The row is locked for the duration of the
// transaction so concurrent requests serialize on the user row; the
// counter wraps at 99999 back to 1.
func (s *Service) NextSerialNumber(ctx context.Context, userID id.ID) (string, error) {
	var serial string

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if u.SerialPrefix == nil || *u.SerialPrefix == "" {
			return domain.WrapIssueError("serial", &sequence.ConfigurationError{
				Reason: "user has no serial prefix assigned",
			})
		}

		class := sequence.UserSerial(*u.SerialPrefix)
		next, counter := class.NextScopedSerial(u.SerialCounter)

		if err := s.repo.UpdateSerial(ctx, userID, u.SerialPrefix, counter); err != nil {
			return err
		}

		serial = next
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "serial number issued", "user_id", userID, "serial", serial)
	return serial, nil
}

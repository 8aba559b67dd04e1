package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain/auth"
)

// Compile-time check that UserRepo implements auth.Repository.
var _ auth.Repository = (*UserRepo)(nil)

// UserRepo persists users.
type UserRepo struct {
	*BaseRepo[*auth.User]
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *TxManager) *UserRepo {
	return &UserRepo{
		BaseRepo: NewBaseRepo(
			txm,
			"users",
			ExtractDBColumns[auth.User](),
			[]string{"username", "full_name", "email"},
			func() *auth.User { return &auth.User{} },
		),
	}
}

// Create inserts a user. Usernames are unique.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	if err := r.BaseRepo.Create(ctx, u); err != nil {
		if IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "username", u.Username)
		}
		return err
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	q := r.Builder().
		Select(ExtractDBColumns[auth.User]()...).
		From("users").
		Where(squirrel.Eq{"username": username, "deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.Querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", username)
		}
		return nil, fmt.Errorf("get by username: %w", err)
	}
	return &u, nil
}

// GetForUpdate retrieves a user with a row lock for serial counter
// advancement. Must run inside a transaction: the lock is held until
// commit, serializing concurrent serial requests for the same user.
func (r *UserRepo) GetForUpdate(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.Builder().
		Select(ExtractDBColumns[auth.User]()...).
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.Querier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, fmt.Errorf("get for update: %w", err)
	}
	return &u, nil
}

// UpdateSerial persists prefix and counter in one statement.
func (r *UserRepo) UpdateSerial(ctx context.Context, userID id.ID, prefix *string, counter int64) error {
	q := r.Builder().
		Update("users").
		Set("serial_prefix", prefix).
		Set("serial_counter", counter).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update serial: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}

// SerialPrefixTaken checks prefix uniqueness across serial-issuing roles,
// excluding the given user.
func (r *UserRepo) SerialPrefixTaken(ctx context.Context, prefix string, excludeUserID id.ID) (bool, error) {
	q := r.Builder().
		Select("1").
		From("users").
		Where(squirrel.Eq{
			"serial_prefix": prefix,
			"role":          []string{auth.RoleMeasurementCaptain, auth.RoleProductionManager},
			"deletion_mark": false,
		}).
		Where(squirrel.NotEq{"id": excludeUserID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("serial prefix taken: %w", err)
	}
	return true, nil
}

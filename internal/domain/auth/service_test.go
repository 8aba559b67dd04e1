package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	Repository
	users    map[id.ID]*User
	prefixes map[string]id.ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[id.ID]*User),
		prefixes: make(map[string]id.ID),
	}
}

func (r *fakeUserRepo) add(u *User) *User {
	r.users[u.ID] = u
	if u.SerialPrefix != nil {
		r.prefixes[*u.SerialPrefix] = u.ID
	}
	return u
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID id.ID) (*User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *fakeUserRepo) GetForUpdate(ctx context.Context, userID id.ID) (*User, error) {
	return r.GetByID(ctx, userID)
}

func (r *fakeUserRepo) UpdateSerial(_ context.Context, userID id.ID, prefix *string, counter int64) error {
	u := r.users[userID]
	u.SerialPrefix = prefix
	u.SerialCounter = counter
	if prefix != nil {
		r.prefixes[*prefix] = userID
	}
	return nil
}

func (r *fakeUserRepo) SerialPrefixTaken(_ context.Context, prefix string, excludeUserID id.ID) (bool, error) {
	owner, ok := r.prefixes[prefix]
	return ok && owner != excludeUserID, nil
}

func newTestUser(username, role string) *User {
	u := NewUser()
	u.Username = username
	u.Role = role
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	u.HashedPassword = string(hash)
	return u
}

func newTestService(repo Repository) *Service {
	jwt := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwt, nopTxManager{})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	u := repo.add(newTestUser("captain", RoleMeasurementCaptain))
	svc := newTestService(repo)

	result, err := svc.Login(ctx, "captain", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, u.ID, result.User.ID)

	userCtx, err := svc.jwt.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), userCtx.UserID)
	assert.Equal(t, RoleMeasurementCaptain, userCtx.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	repo.add(newTestUser("captain", RoleMeasurementCaptain))
	svc := newTestService(repo)

	_, err := svc.Login(ctx, "captain", "wrong")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Unknown username gets the same answer.
	_, err = svc.Login(ctx, "nobody", "correct-horse")
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	u := newTestUser("captain", RoleMeasurementCaptain)
	u.IsActive = false
	repo.add(u)
	svc := newTestService(repo)

	_, err := svc.Login(ctx, "captain", "correct-horse")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestAssignSerialPrefix(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	u := newTestUser("captain", RoleMeasurementCaptain)
	u.SerialCounter = 42
	repo.add(u)
	svc := newTestService(repo)

	updated, err := svc.AssignSerialPrefix(ctx, u.ID, "A")
	require.NoError(t, err)
	require.NotNil(t, updated.SerialPrefix)
	assert.Equal(t, "A", *updated.SerialPrefix)

	// Assignment resets the counter.
	assert.Equal(t, int64(0), updated.SerialCounter)
}

func TestAssignSerialPrefixValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	captain := repo.add(newTestUser("captain", RoleMeasurementCaptain))
	admin := repo.add(newTestUser("boss", RoleAdmin))

	prefix := "B"
	manager := newTestUser("manager", RoleProductionManager)
	manager.SerialPrefix = &prefix
	repo.add(manager)

	svc := newTestService(repo)

	// Lowercase and multi-character prefixes are rejected.
	_, err := svc.AssignSerialPrefix(ctx, captain.ID, "a")
	require.Error(t, err)
	_, err = svc.AssignSerialPrefix(ctx, captain.ID, "AB")
	require.Error(t, err)

	// Admins do not consume serial numbers.
	_, err = svc.AssignSerialPrefix(ctx, admin.ID, "C")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	// The letter is unique across serial-issuing roles.
	_, err = svc.AssignSerialPrefix(ctx, captain.ID, "B")
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestNextSerialNumber(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	prefix := "A"
	u := newTestUser("captain", RoleMeasurementCaptain)
	u.SerialPrefix = &prefix
	repo.add(u)
	svc := newTestService(repo)

	serial, err := svc.NextSerialNumber(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A00001", serial)

	serial, err = svc.NextSerialNumber(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A00002", serial)
	assert.Equal(t, int64(2), u.SerialCounter)
}

func TestNextSerialNumberWrapsAtCeiling(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	prefix := "Z"
	u := newTestUser("captain", RoleMeasurementCaptain)
	u.SerialPrefix = &prefix
	u.SerialCounter = 99999
	repo.add(u)
	svc := newTestService(repo)

	serial, err := svc.NextSerialNumber(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Z00001", serial)
	assert.Equal(t, int64(1), u.SerialCounter)
}

func TestNextSerialNumberRequiresPrefix(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	u := repo.add(newTestUser("captain", RoleMeasurementCaptain))
	svc := newTestService(repo)

	_, err := svc.NextSerialNumber(ctx, u.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConfiguration, appErr.Code)
}

package party

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/domain"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePartyRepo struct {
	Repository
	parties map[id.ID]*Party
}

func newFakePartyRepo() *fakePartyRepo {
	return &fakePartyRepo{parties: make(map[id.ID]*Party)}
}

func (r *fakePartyRepo) Create(_ context.Context, p *Party) error {
	r.parties[p.ID] = p
	return nil
}

func (r *fakePartyRepo) GetByID(_ context.Context, partyID id.ID) (*Party, error) {
	p, ok := r.parties[partyID]
	if !ok {
		return nil, apperror.NewNotFound("party", partyID.String())
	}
	return p, nil
}

func (r *fakePartyRepo) Update(_ context.Context, p *Party) error {
	r.parties[p.ID] = p
	return nil
}

func (r *fakePartyRepo) SetDeletionMark(_ context.Context, partyID id.ID, marked bool) error {
	p, ok := r.parties[partyID]
	if !ok {
		return apperror.NewNotFound("party", partyID.String())
	}
	p.DeletionMark = marked
	return nil
}

func (r *fakePartyRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	for _, p := range r.parties {
		if !p.DeletionMark && p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func newTestParty(name, phone string) *Party {
	p := New()
	p.Name = name
	p.Phone = phone
	return p
}

func TestCreateParty(t *testing.T) {
	ctx := context.Background()
	repo := newFakePartyRepo()
	svc := NewService(repo, nopTxManager{})

	p := newTestParty("Acme Joinery", "9876543210")
	require.NoError(t, svc.Create(ctx, p))

	stored, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Joinery", stored.Name)
}

func TestCreatePartyRejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	repo := newFakePartyRepo()
	svc := NewService(repo, nopTxManager{})

	require.NoError(t, svc.Create(ctx, newTestParty("First", "9876543210")))

	err := svc.Create(ctx, newTestParty("Second", "9876543210"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeDuplicate, err.(*apperror.AppError).Code)
}

func TestCreatePartyValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakePartyRepo(), nopTxManager{})

	err := svc.Create(ctx, newTestParty("", "9876543210"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)

	err = svc.Create(ctx, newTestParty("No Phone", ""))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestDeleteFreesPhoneForReuse(t *testing.T) {
	ctx := context.Background()
	repo := newFakePartyRepo()
	svc := NewService(repo, nopTxManager{})

	p := newTestParty("Old", "9876543210")
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Delete(ctx, p.ID))

	require.NoError(t, svc.Create(ctx, newTestParty("New", "9876543210")))
}

func TestPartyHooks(t *testing.T) {
	ctx := context.Background()
	repo := newFakePartyRepo()
	svc := NewService(repo, nopTxManager{})

	var created, deleted []string
	svc.Hooks().On(domain.AfterCreate, func(_ context.Context, p *Party) error {
		created = append(created, p.Name)
		return nil
	})
	svc.Hooks().On(domain.AfterDelete, func(_ context.Context, p *Party) error {
		deleted = append(deleted, p.Name)
		return nil
	})

	p := newTestParty("Hooked", "9876500000")
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Delete(ctx, p.ID))

	assert.Equal(t, []string{"Hooked"}, created)
	assert.Equal(t, []string{"Hooked"}, deleted)
}

func TestBeforeCreateHookBlocksCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakePartyRepo()
	svc := NewService(repo, nopTxManager{})

	svc.Hooks().On(domain.BeforeCreate, func(_ context.Context, _ *Party) error {
		return apperror.NewForbidden("blocked")
	})

	err := svc.Create(ctx, newTestParty("Blocked", "9876511111"))
	require.Error(t, err)
	assert.Empty(t, repo.parties)
}

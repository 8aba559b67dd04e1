package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
	"milltrack/internal/domain/production"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatchRepo struct {
	Repository
	dispatches map[id.ID]*Dispatch
	items      map[id.ID][]*Item
	gatePasses map[id.ID]*GatePass
	numbers    map[string]bool
}

func newFakeDispatchRepo() *fakeDispatchRepo {
	return &fakeDispatchRepo{
		dispatches: make(map[id.ID]*Dispatch),
		items:      make(map[id.ID][]*Item),
		gatePasses: make(map[id.ID]*GatePass),
		numbers:    make(map[string]bool),
	}
}

func (r *fakeDispatchRepo) CurrentMax(_ context.Context, class sequence.Class) (int64, error) {
	var all []string
	for number := range r.numbers {
		all = append(all, number)
	}
	return class.MaxOf(all), nil
}

func (r *fakeDispatchRepo) take(number string) error {
	if r.numbers[number] {
		return &sequence.DuplicateError{Number: number}
	}
	r.numbers[number] = true
	return nil
}

func (r *fakeDispatchRepo) Create(_ context.Context, d *Dispatch) error {
	if err := r.take(d.Number); err != nil {
		return err
	}
	r.dispatches[d.ID] = d
	return nil
}

func (r *fakeDispatchRepo) GetByID(_ context.Context, dispatchID id.ID) (*Dispatch, error) {
	d, ok := r.dispatches[dispatchID]
	if !ok {
		return nil, apperror.NewNotFound("dispatch", dispatchID.String())
	}
	return d, nil
}

func (r *fakeDispatchRepo) Update(_ context.Context, d *Dispatch) error {
	r.dispatches[d.ID] = d
	return nil
}

func (r *fakeDispatchRepo) SaveItems(_ context.Context, dispatchID id.ID, items []*Item) error {
	r.items[dispatchID] = items
	return nil
}

func (r *fakeDispatchRepo) CreateGatePass(_ context.Context, gp *GatePass) error {
	if err := r.take(gp.Number); err != nil {
		return err
	}
	r.gatePasses[gp.ID] = gp
	return nil
}

func (r *fakeDispatchRepo) GetGatePass(_ context.Context, gatePassID id.ID) (*GatePass, error) {
	gp, ok := r.gatePasses[gatePassID]
	if !ok {
		return nil, apperror.NewNotFound("gate pass", gatePassID.String())
	}
	return gp, nil
}

func (r *fakeDispatchRepo) UpdateGatePass(_ context.Context, gp *GatePass) error {
	r.gatePasses[gp.ID] = gp
	return nil
}

func (r *fakeDispatchRepo) GatePassExistsForDispatch(_ context.Context, dispatchID id.ID) (bool, error) {
	for _, gp := range r.gatePasses {
		if gp.DispatchID == dispatchID {
			return true, nil
		}
	}
	return false, nil
}

type fakePapers struct {
	papers map[id.ID]*production.Paper
}

func (f *fakePapers) GetPaper(_ context.Context, paperID id.ID) (*production.Paper, error) {
	p, ok := f.papers[paperID]
	if !ok {
		return nil, apperror.NewNotFound("paper", paperID.String())
	}
	return p, nil
}

func (f *fakePapers) addPaper(status string) *production.Paper {
	p := production.NewPaper()
	p.PartyID = id.New()
	p.ProductCategory = "Shutter"
	p.Status = status
	f.papers[p.ID] = p
	return p
}

func newTestService(repo *fakeDispatchRepo, papers *fakePapers) *Service {
	return NewService(repo, papers, sequence.NewIssuer(repo), nopTxManager{})
}

func newTestDispatch(paperID id.ID) *Dispatch {
	d := New()
	d.PartyID = id.New()
	d.Items = []*Item{{ID: id.New(), PaperID: paperID, Quantity: 1}}
	return d
}

func TestCreateDispatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDispatchRepo()
	papers := &fakePapers{papers: make(map[id.ID]*production.Paper)}
	svc := newTestService(repo, papers)

	ready := papers.addPaper(production.StatusReadyForDispatch)
	d := newTestDispatch(ready.ID)
	require.NoError(t, svc.Create(ctx, d))
	assert.Equal(t, "DSP-0001", d.Number)
	assert.Equal(t, StatusPending, d.Status)

	second := newTestDispatch(ready.ID)
	require.NoError(t, svc.Create(ctx, second))
	assert.Equal(t, "DSP-0002", second.Number)
}

func TestCreateDispatchRequiresReadyPapers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDispatchRepo()
	papers := &fakePapers{papers: make(map[id.ID]*production.Paper)}
	svc := newTestService(repo, papers)

	inProduction := papers.addPaper(production.StatusInProduction)
	d := newTestDispatch(inProduction.ID)

	err := svc.Create(ctx, d)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotReadyForDispatch, appErr.Code)
}

func TestGatePassLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDispatchRepo()
	papers := &fakePapers{papers: make(map[id.ID]*production.Paper)}
	svc := newTestService(repo, papers)

	ready := papers.addPaper(production.StatusReadyForDispatch)
	d := newTestDispatch(ready.ID)
	require.NoError(t, svc.Create(ctx, d))

	// Gate pass requires an approved dispatch.
	_, err := svc.IssueGatePass(ctx, d.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)

	_, err = svc.UpdateStatus(ctx, d.ID, StatusApproved)
	require.NoError(t, err)

	gp, err := svc.IssueGatePass(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "GP-0001", gp.Number)
	assert.False(t, gp.Verified)

	// One gate pass per dispatch.
	_, err = svc.IssueGatePass(ctx, d.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, err.(*apperror.AppError).Code)

	verified, err := svc.VerifyGatePass(ctx, gp.ID)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.NotNil(t, verified.VerifiedAt)

	_, err = svc.VerifyGatePass(ctx, gp.ID)
	require.Error(t, err)
}

func TestDispatchStatusWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeDispatchRepo()
	papers := &fakePapers{papers: make(map[id.ID]*production.Paper)}
	svc := newTestService(repo, papers)

	ready := papers.addPaper(production.StatusReadyForDispatch)
	d := newTestDispatch(ready.ID)
	require.NoError(t, svc.Create(ctx, d))

	// Cannot jump straight to dispatched.
	_, err := svc.UpdateStatus(ctx, d.ID, StatusDispatched)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidStatus, err.(*apperror.AppError).Code)

	_, err = svc.UpdateStatus(ctx, d.ID, StatusApproved)
	require.NoError(t, err)
	updated, err := svc.UpdateStatus(ctx, d.ID, StatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, StatusDispatched, updated.Status)
}

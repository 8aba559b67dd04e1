package production

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/id"
	"milltrack/internal/core/sequence"
)

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePaperRepo struct {
	Repository
	papers  map[id.ID]*Paper
	numbers map[string]bool
}

func newFakePaperRepo() *fakePaperRepo {
	return &fakePaperRepo{
		papers:  make(map[id.ID]*Paper),
		numbers: make(map[string]bool),
	}
}

func (r *fakePaperRepo) CurrentMax(_ context.Context, class sequence.Class) (int64, error) {
	var all []string
	for number := range r.numbers {
		all = append(all, number)
	}
	return class.MaxOf(all), nil
}

func (r *fakePaperRepo) Create(_ context.Context, p *Paper) error {
	if r.numbers[p.Number] {
		return &sequence.DuplicateError{Number: p.Number}
	}
	r.numbers[p.Number] = true
	r.papers[p.ID] = p
	return nil
}

func (r *fakePaperRepo) GetByID(_ context.Context, paperID id.ID) (*Paper, error) {
	p, ok := r.papers[paperID]
	if !ok {
		return nil, apperror.NewNotFound("paper", paperID.String())
	}
	return p, nil
}

func (r *fakePaperRepo) Update(_ context.Context, p *Paper) error {
	r.papers[p.ID] = p
	return nil
}

type fakeScheduleRepo struct {
	ScheduleRepository
	schedules map[id.ID]*Schedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[id.ID]*Schedule)}
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *Schedule) error {
	r.schedules[s.ID] = s
	return nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, scheduleID id.ID) (*Schedule, error) {
	s, ok := r.schedules[scheduleID]
	if !ok {
		return nil, apperror.NewNotFound("schedule", scheduleID.String())
	}
	return s, nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, s *Schedule) error {
	r.schedules[s.ID] = s
	return nil
}

func newTestService(repo *fakePaperRepo, schedules ScheduleRepository) *Service {
	return NewService(repo, schedules, sequence.NewIssuer(repo), nopTxManager{})
}

func newTestPaper(category string) *Paper {
	p := NewPaper()
	p.PartyID = id.New()
	p.ProductCategory = category
	return p
}

func TestCreatePaperNumbersByCategory(t *testing.T) {
	ctx := context.Background()
	repo := newFakePaperRepo()
	svc := newTestService(repo, newFakeScheduleRepo())

	shutter := newTestPaper("Shutter")
	require.NoError(t, svc.CreatePaper(ctx, shutter))
	assert.Equal(t, "S0001", shutter.Number)

	frame := newTestPaper("Frame")
	require.NoError(t, svc.CreatePaper(ctx, frame))
	assert.Equal(t, "F0001", frame.Number)

	door := newTestPaper("Door")
	require.NoError(t, svc.CreatePaper(ctx, door))
	assert.Equal(t, "P0001", door.Number)

	// Each category advances independently.
	second := newTestPaper("Shutter")
	require.NoError(t, svc.CreatePaper(ctx, second))
	assert.Equal(t, "S0002", second.Number)
	assert.Equal(t, StatusDraft, second.Status)
}

func TestCreatePaperValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePaperRepo(), newFakeScheduleRepo())

	p := NewPaper()
	p.ProductCategory = "Shutter"
	err := svc.CreatePaper(ctx, p)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestUpdateStatusFollowsWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := newFakePaperRepo()
	svc := newTestService(repo, newFakeScheduleRepo())

	p := newTestPaper("Shutter")
	require.NoError(t, svc.CreatePaper(ctx, p))

	for _, next := range []string{StatusApproved, StatusActive, StatusInProduction, StatusCompleted, StatusReadyForDispatch} {
		updated, err := svc.UpdateStatus(ctx, p.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Production start is stamped when work begins.
	assert.NotNil(t, repo.papers[p.ID].ProductionStart)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	ctx := context.Background()
	repo := newFakePaperRepo()
	svc := newTestService(repo, newFakeScheduleRepo())

	p := newTestPaper("Frame")
	require.NoError(t, svc.CreatePaper(ctx, p))

	_, err := svc.UpdateStatus(ctx, p.ID, StatusReadyForDispatch)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidStatus, appErr.Code)

	// Backwards moves are rejected too.
	_, err = svc.UpdateStatus(ctx, p.ID, StatusDraft)
	require.Error(t, err)
}

func TestSchedulePaper(t *testing.T) {
	ctx := context.Background()
	repo := newFakePaperRepo()
	schedules := newFakeScheduleRepo()
	svc := newTestService(repo, schedules)

	p := newTestPaper("Shutter")
	require.NoError(t, svc.CreatePaper(ctx, p))

	sched := NewSchedule()
	sched.PaperID = p.ID
	sched.Department = "cutting"
	sched.ScheduledDate = time.Now().AddDate(0, 0, 1)

	// Draft papers cannot be scheduled.
	err := svc.SchedulePaper(ctx, sched)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)

	_, err = svc.UpdateStatus(ctx, p.ID, StatusApproved)
	require.NoError(t, err)

	require.NoError(t, svc.SchedulePaper(ctx, sched))
	assert.Equal(t, ScheduleStatusScheduled, sched.Status)

	// Schedule workflow: scheduled -> in_production -> completed.
	updated, err := svc.UpdateScheduleStatus(ctx, sched.ID, ScheduleStatusInProduction)
	require.NoError(t, err)
	assert.Equal(t, ScheduleStatusInProduction, updated.Status)

	_, err = svc.UpdateScheduleStatus(ctx, sched.ID, ScheduleStatusScheduled)
	require.Error(t, err)
}

func TestDeletePaperOnlyDrafts(t *testing.T) {
	ctx := context.Background()
	repo := newFakePaperRepo()
	svc := newTestService(repo, newFakeScheduleRepo())

	p := newTestPaper("Shutter")
	require.NoError(t, svc.CreatePaper(ctx, p))
	_, err := svc.UpdateStatus(ctx, p.ID, StatusApproved)
	require.NoError(t, err)

	err = svc.DeletePaper(ctx, p.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)
}

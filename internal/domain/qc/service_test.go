package qc

import (
	"context"
	"testing"

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

type fakeQCRepo struct {
	Repository
	checks  map[id.ID]*Check
	reworks map[id.ID]*Rework
	certs   map[id.ID]*Certificate
	numbers map[string]bool
}

func newFakeQCRepo() *fakeQCRepo {
	return &fakeQCRepo{
		checks:  make(map[id.ID]*Check),
		reworks: make(map[id.ID]*Rework),
		certs:   make(map[id.ID]*Certificate),
		numbers: make(map[string]bool),
	}
}

func (r *fakeQCRepo) CurrentMax(_ context.Context, class sequence.Class) (int64, error) {
	var all []string
	for number := range r.numbers {
		all = append(all, number)
	}
	return class.MaxOf(all), nil
}

func (r *fakeQCRepo) take(number string) error {
	if r.numbers[number] {
		return &sequence.DuplicateError{Number: number}
	}
	r.numbers[number] = true
	return nil
}

func (r *fakeQCRepo) CreateCheck(_ context.Context, c *Check) error {
	if err := r.take(c.Number); err != nil {
		return err
	}
	r.checks[c.ID] = c
	return nil
}

func (r *fakeQCRepo) GetCheck(_ context.Context, checkID id.ID) (*Check, error) {
	c, ok := r.checks[checkID]
	if !ok {
		return nil, apperror.NewNotFound("quality check", checkID.String())
	}
	return c, nil
}

func (r *fakeQCRepo) CreateRework(_ context.Context, rw *Rework) error {
	if err := r.take(rw.Number); err != nil {
		return err
	}
	r.reworks[rw.ID] = rw
	return nil
}

func (r *fakeQCRepo) GetRework(_ context.Context, reworkID id.ID) (*Rework, error) {
	rw, ok := r.reworks[reworkID]
	if !ok {
		return nil, apperror.NewNotFound("rework order", reworkID.String())
	}
	return rw, nil
}

func (r *fakeQCRepo) UpdateRework(_ context.Context, rw *Rework) error {
	r.reworks[rw.ID] = rw
	return nil
}

func (r *fakeQCRepo) CreateCertificate(_ context.Context, c *Certificate) error {
	if err := r.take(c.Number); err != nil {
		return err
	}
	r.certs[c.ID] = c
	return nil
}

func (r *fakeQCRepo) CertificateExistsForPaper(_ context.Context, paperID id.ID) (bool, error) {
	for _, c := range r.certs {
		if c.PaperID == paperID {
			return true, nil
		}
	}
	return false, nil
}

func newTestCheck(result string) *Check {
	c := NewCheck()
	c.PaperID = id.New()
	c.Result = result
	c.CheckedBy = "inspector"
	return c
}

func TestCreateCheckIssuesQCNumbers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	first := newTestCheck(ResultPass)
	_, err := svc.CreateCheck(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "QC001", first.Number)

	second := newTestCheck(ResultFail)
	_, err = svc.CreateCheck(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "QC002", second.Number)
}

func TestCreateCheckOpensReworkOnReworkResult(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	check := newTestCheck(ResultRework)
	rework, err := svc.CreateCheck(ctx, check)
	require.NoError(t, err)
	require.NotNil(t, rework)
	assert.Equal(t, "RW001", rework.Number)
	assert.Equal(t, check.ID, rework.CheckID)
	assert.Equal(t, check.PaperID, rework.PaperID)
	assert.Equal(t, ReworkStatusOpen, rework.Status)

	// Passing checks do not open rework orders.
	pass := newTestCheck(ResultPass)
	rework, err = svc.CreateCheck(ctx, pass)
	require.NoError(t, err)
	assert.Nil(t, rework)
}

func TestCreateCheckRejectsUnknownResult(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	check := newTestCheck("maybe")
	_, err := svc.CreateCheck(ctx, check)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, err.(*apperror.AppError).Code)
}

func TestIssueCertificate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	check := newTestCheck(ResultPass)
	_, err := svc.CreateCheck(ctx, check)
	require.NoError(t, err)

	cert, err := svc.IssueCertificate(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, "QCCERT001", cert.Number)
	assert.Equal(t, check.PaperID, cert.PaperID)

	// One certificate per paper.
	_, err = svc.IssueCertificate(ctx, check.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, err.(*apperror.AppError).Code)
}

func TestIssueCertificateRequiresPass(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	check := newTestCheck(ResultFail)
	_, err := svc.CreateCheck(ctx, check)
	require.NoError(t, err)

	_, err = svc.IssueCertificate(ctx, check.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBusinessRule, err.(*apperror.AppError).Code)
}

func TestCompleteRework(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQCRepo()
	svc := NewService(repo, sequence.NewIssuer(repo), nopTxManager{})

	check := newTestCheck(ResultRework)
	rework, err := svc.CreateCheck(ctx, check)
	require.NoError(t, err)

	done, err := svc.CompleteRework(ctx, rework.ID)
	require.NoError(t, err)
	assert.Equal(t, ReworkStatusDone, done.Status)

	_, err = svc.CompleteRework(ctx, rework.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeConflict, err.(*apperror.AppError).Code)
}

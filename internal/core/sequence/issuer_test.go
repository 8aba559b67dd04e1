package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerIssue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("MP00001", "MP00003")
	issuer := NewIssuer(store)

	number, err := issuer.Issue(ctx, Measurements, store.Persist)
	require.NoError(t, err)
	assert.Equal(t, "MP00004", number)

	number, err = issuer.Issue(ctx, Measurements, store.Persist)
	require.NoError(t, err)
	assert.Equal(t, "MP00005", number)
}

func TestIssuerPreviewIsPure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("QC001", "QC007")
	issuer := NewIssuer(store)

	first, err := issuer.Preview(ctx, QualityChecks)
	require.NoError(t, err)
	second, err := issuer.Preview(ctx, QualityChecks)
	require.NoError(t, err)

	assert.Equal(t, "QC008", first)
	assert.Equal(t, first, second)
}

func TestIssuerWrapsAtCeiling(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("S9999")
	issuer := NewIssuer(store)

	number, err := issuer.Issue(ctx, ShutterPapers, store.Persist)
	require.NoError(t, err)
	assert.Equal(t, "S0001", number)
}

func TestIssuerWrapCollisionSurfacesDuplicate(t *testing.T) {
	// After wrap the computed number is still occupied by a surviving
	// low-numbered row. Max stays at the ceiling, so every attempt
	// recomputes the same number; the duplicate must surface instead of
	// silently reissuing.
	ctx := context.Background()
	store := NewMemoryStore("S0001", "S9999")
	issuer := NewIssuer(store)

	_, err := issuer.Issue(ctx, ShutterPapers, store.Persist)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
}

type countingSource struct {
	MaxSource
	calls int
	err   error
}

func (c *countingSource) CurrentMax(ctx context.Context, class Class) (int64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.MaxSource.CurrentMax(ctx, class)
}

func TestIssuerRetriesOnDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	source := &countingSource{MaxSource: store}
	issuer := NewIssuer(source)

	failures := 2
	persist := func(ctx context.Context, number string) error {
		if failures > 0 {
			failures--
			// Simulate a concurrent winner taking the number.
			require.NoError(t, store.Persist(ctx, number))
			return &DuplicateError{Number: number}
		}
		return store.Persist(ctx, number)
	}

	number, err := issuer.Issue(ctx, Measurements, persist)
	require.NoError(t, err)
	assert.Equal(t, "MP00003", number)
	assert.Equal(t, 3, source.calls)
}

func TestIssuerAttemptsAreBounded(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{MaxSource: NewMemoryStore()}
	issuer := NewIssuer(source)

	persist := func(ctx context.Context, number string) error {
		return &DuplicateError{Number: number}
	}

	_, err := issuer.Issue(ctx, Measurements, persist)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))
	assert.Equal(t, 3, source.calls)
}

func TestIssuerStorageErrorIsNotRetried(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{err: errors.New("connection refused")}
	issuer := NewIssuer(source)

	persisted := false
	_, err := issuer.Issue(ctx, Measurements, func(ctx context.Context, number string) error {
		persisted = true
		return nil
	})

	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.False(t, persisted)
	assert.Equal(t, 1, source.calls)
}

func TestIssuerPersistErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	issuer := NewIssuer(store)

	boom := errors.New("disk full")
	_, err := issuer.Issue(ctx, Measurements, func(ctx context.Context, number string) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
}

func TestIssuerRejectsMisconfiguredClass(t *testing.T) {
	ctx := context.Background()
	issuer := NewIssuer(NewMemoryStore())

	_, err := issuer.Issue(ctx, Class{Width: 5, Ceiling: 99999}, func(ctx context.Context, number string) error {
		t.Fatal("persist must not run for a misconfigured class")
		return nil
	})

	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
}

func TestIssuerConcurrentIssuesAreDistinct(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	issuer := NewIssuer(store)

	const workers = 3
	var wg sync.WaitGroup
	results := make(chan string, workers)
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := issuer.Issue(ctx, Measurements, store.Persist)
			if err != nil {
				errs <- err
				return
			}
			results <- number
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent issue failed: %v", err)
	}

	seen := make(map[string]bool)
	for number := range results {
		assert.False(t, seen[number], "number %s issued twice", number)
		seen[number] = true
	}
	assert.Len(t, seen, workers)
	assert.Equal(t, workers, store.Len())
}

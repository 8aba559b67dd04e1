package sequence

import (
	"context"
	"fmt"
)

// MaxSource reports the current maximum numeric part of a series.
// The PostgreSQL implementation runs an indexed MAX query over the
// series' number column; tests use MemoryStore.
type MaxSource interface {
	CurrentMax(ctx context.Context, class Class) (int64, error)
}

// PersistFunc stores a document under the issued number. It must return
// a *DuplicateError when the number collides with an existing row (the
// storage layer maps unique-constraint violations to it).
type PersistFunc func(ctx context.Context, number string) error

// issueAttempts bounds the retry loop on duplicate collisions.
const issueAttempts = 3

// Issuer runs the read-compute-write cycle for global series.
//
// Each attempt reads the current max, computes max+1 (wrapping at the
// class ceiling) and hands the formatted number to persist. A duplicate
// collision (a concurrent issuer won the race, or a wrapped number is
// still occupied by a surviving row) triggers a fresh attempt. Any other
// persist error and any read error end the cycle immediately.
type Issuer struct {
	source   MaxSource
	attempts int
}

// NewIssuer creates an Issuer over the given source.
func NewIssuer(source MaxSource) *Issuer {
	return &Issuer{source: source, attempts: issueAttempts}
}

// Preview computes the next number without persisting anything.
// Two consecutive previews return the same value.
func (i *Issuer) Preview(ctx context.Context, class Class) (string, error) {
	if err := class.Validate(); err != nil {
		return "", err
	}
	max, err := i.source.CurrentMax(ctx, class)
	if err != nil {
		return "", asStorageError("current max", err)
	}
	number, _ := class.NextAfter(max)
	return number, nil
}

// Issue computes the next number of the series and persists under it,
// retrying on duplicate collisions up to the attempt bound. The returned
// number is the one persist accepted.
func (i *Issuer) Issue(ctx context.Context, class Class, persist PersistFunc) (string, error) {
	if err := class.Validate(); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < i.attempts; attempt++ {
		max, err := i.source.CurrentMax(ctx, class)
		if err != nil {
			return "", asStorageError("current max", err)
		}

		number, _ := class.NextAfter(max)
		err = persist(ctx, number)
		if err == nil {
			return number, nil
		}
		if !IsDuplicate(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("issue %s number: attempts exhausted: %w", class.Name, lastErr)
}

func asStorageError(op string, err error) error {
	if IsStorage(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

package domain

import (
	"fmt"

	"milltrack/internal/core/apperror"
	"milltrack/internal/core/sequence"
)

// WrapIssueError translates number-issuance failures into API errors.
// Duplicate exhaustion becomes a 409 (the client may retry), storage
// failures a 500, misconfiguration (e.g. missing serial prefix) a 400.
func WrapIssueError(entity string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case sequence.IsConfiguration(err):
		return apperror.NewConfiguration(err.Error())
	case sequence.IsDuplicate(err):
		return apperror.NewConflict(fmt.Sprintf("could not allocate a unique %s number", entity)).WithCause(err)
	case sequence.IsStorage(err):
		return apperror.NewInternal(err)
	default:
		return err
	}
}

package sequence

import (
	"errors"
	"fmt"
)

// StorageError wraps a failure of the backing store during number issuance.
// Storage failures are not retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("sequence storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DuplicateError reports that a computed number already exists in storage.
// The issuer retries the read-compute-write cycle on this error.
type DuplicateError struct {
	Number string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("number %s already exists", e.Number)
}

// ConfigurationError reports an unusable series definition, e.g. a scoped
// serial request for a user without an assigned prefix.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sequence misconfigured: %s", e.Reason)
}

// IsDuplicate checks if err is a DuplicateError.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

// IsStorage checks if err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsConfiguration checks if err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

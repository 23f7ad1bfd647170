package location

import (
	"errors"
	"fmt"
)

// ErrInvalidSource rejects a source label that fails IsValidLabel, on either
// the write path or the read path.
var ErrInvalidSource = errors.New("invalid source label")

// MalformedFieldError reports an optional field whose non-empty value failed
// to parse as its expected type. It is raised before any store interaction.
type MalformedFieldError struct {
	Field string
	Err   error
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field %q: %v", e.Field, e.Err)
}

func (e *MalformedFieldError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure of the store call itself. The cause is meant
// for logs; handlers surface only a generic server error to the client.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

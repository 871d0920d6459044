package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network failures and non-success HTTP statuses.
	ErrTransport = errors.New("transport failure")
	// ErrDecode marks malformed JSON pages and malformed compressed or tar streams.
	ErrDecode = errors.New("decode failure")
	// ErrPathViolation marks an archive entry that would escape its destination.
	ErrPathViolation = errors.New("path violation")
	// ErrStorage marks a catalog file that cannot be written.
	ErrStorage = errors.New("storage failure")
	// ErrNoMorePages is returned by a tag listing that has run out of data.
	ErrNoMorePages = errors.New("no more pages")
	// ErrSessionConsumed is returned when a download session is reused.
	ErrSessionConsumed = errors.New("download session already consumed")
	// ErrNotInstalled is returned for versions without a built distribution.
	ErrNotInstalled = errors.New("version is not installed")
	// ErrCanceled is returned when a destructive command was not confirmed.
	ErrCanceled = errors.New("operation canceled")
)

// OperationError carries which operation failed and on what (a page, a URL,
// an entry path) next to the failure kind and its cause.
type OperationError struct {
	Op      string
	Subject string
	Err     error
}

// NewOperationError wraps cause with one of the sentinel kinds above.
func NewOperationError(op, subject string, kind, cause error) *OperationError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &OperationError{Op: op, Subject: subject, Err: err}
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

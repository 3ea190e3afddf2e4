package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for unknown locator kinds, unknown
	// configuration keys and malformed arguments. It is never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPreconditionFailed is returned when a log stream is read without the
	// matching capability enabled at session creation.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrBackend marks unexpected failures of the underlying automation library.
	ErrBackend = errors.New("backend error")

	// ErrNoSuchElement reports that a single find attempt matched nothing.
	ErrNoSuchElement = errors.New("no such element")

	// ErrNoAlert reports that no alert dialog is open.
	ErrNoAlert = errors.New("no alert open")
)

// SearchBackendError wraps a failure of the find primitive that aborted a
// polling search.
type SearchBackendError struct {
	Target string
	Err    error
}

func (e *SearchBackendError) Error() string {
	return fmt.Sprintf("search %s: %v", e.Target, e.Err)
}

func (e *SearchBackendError) Unwrap() []error {
	return []error{ErrBackend, e.Err}
}

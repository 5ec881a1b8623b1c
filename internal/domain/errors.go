package domain

import (
	"errors"
	"fmt"
)

// Sentinel outcomes that callers are expected to branch on. None of these
// indicate a transport or storage failure.
var (
	// ErrNotFound is returned when the upstream service reports that an
	// identity, match, or live game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDenylisted is returned by an add for a stable id that is
	// already present.
	ErrAlreadyDenylisted = errors.New("player is already denylisted")

	// ErrNotDenylisted is returned by a remove for a stable id that is not
	// present.
	ErrNotDenylisted = errors.New("player is not denylisted")
)

// UpstreamError is a transport, auth, rate-limit, or malformed-response
// failure from the Riot API.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("riot: %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("riot: %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError is a disk read/write failure or a malformed on-disk store.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError rejects bad input before any network or storage call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Package internalerr defines the sentinel errors shared by the engine,
// the config loader and the run archive. Callers match them with errors.Is.
package internalerr

import "errors"

var (
	// ErrNotFound is returned for an unknown run ID.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers blank document or run IDs.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate reports a document ID seen twice in one working set.
	ErrDuplicate = errors.New("duplicate document id")
	// ErrStoreUnavailable means the archive database could not be opened.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrInvalidConfig reports unusable thresholds or config files.
	ErrInvalidConfig = errors.New("invalid configuration")
)

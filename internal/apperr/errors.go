// Package apperr holds the sentinel errors shared by services and transports.
package apperr

import "errors"

var (
	// ErrInvalid is returned when input fails domain validation.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a state conflict, e.g. a drone taken by a concurrent dispatch.
	ErrConflict = errors.New("conflict")
)

package model

import "errors"

// Error taxonomy shared by the backend client, the stores and the gateway.
var (
	// ErrTransport wraps network failures talking to the backend.
	ErrTransport = errors.New("backend unreachable")

	// ErrUnauthorized is returned when the backend rejects the session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the current role may not perform an action.
	ErrForbidden = errors.New("forbidden")

	// ErrLoginRequired is returned before dispatch when no session is active.
	ErrLoginRequired = errors.New("login required")

	// ErrNotFound is returned when the target entity no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the backend reports a state conflict.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for input rejected before dispatch.
	ErrValidation = errors.New("validation failed")

	// ErrMutationInFlight is returned when the same entity is already being mutated.
	ErrMutationInFlight = errors.New("mutation already in flight")

	// ErrNothingStaged is returned when confirming with no staged action.
	ErrNothingStaged = errors.New("nothing to confirm")
)

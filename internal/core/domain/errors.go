package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates a workflow transition is not allowed from
	// the entity's current state, e.g. resolving a non-pending conflict.
	ErrInvalidState = errors.New("invalid state")

	// ErrProviderUnavailable indicates an embedding or completion call was
	// attempted without a configured provider. There is no local fallback:
	// the error propagates to the caller unchanged.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

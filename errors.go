package openmetricz

import "errors"

// Sentinel errors returned by registry and metric operations.
// Callers match them with errors.Is; the returned errors carry context.
var (
	// ErrInvalidArgument reports malformed construction parameters.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports an unknown state name or index on a Stateset.
	ErrOutOfRange = errors.New("out of range")

	// ErrAlreadyExists reports a registration whose identity is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound reports a metric that is not registered in the registry.
	ErrNotFound = errors.New("not found")
)

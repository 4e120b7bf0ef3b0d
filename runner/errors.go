package runner

import "errors"

// Sentinel errors for the runner package.
var (
	// ErrMaxFailures is returned when the max failure limit is reached.
	ErrMaxFailures = errors.New("runner: max failures reached")

	// ErrNoExecutor is returned when no executor is configured.
	ErrNoExecutor = errors.New("runner: no executor configured")

	// ErrInvalidFilter is returned when a statement filter is not a valid regex.
	ErrInvalidFilter = errors.New("runner: invalid filter")

	// Test errors for use in unit tests.
	errTestTransport = errors.New("test: connection reset")
	errTestStop      = errors.New("test: stop")
)

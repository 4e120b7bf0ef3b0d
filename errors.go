package ngspec

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .ngspec.yaml is found.
	ErrConfigNotFound = errors.New("ngspec: no .ngspec.yaml found")

	// ErrInvalidConfig is returned when a config file fails validation.
	ErrInvalidConfig = errors.New("ngspec: invalid config")

	// ErrUnknownDatabase is returned when an unknown database is requested.
	ErrUnknownDatabase = errors.New("ngspec: unknown database")

	// ErrInvalidVidType is returned for VID types other than INT64 and FIXED_STRING(n).
	ErrInvalidVidType = errors.New("ngspec: invalid vid type")

	// ErrValidation is matched by every mapping validation error.
	ErrValidation = errors.New("ngspec: mapping validation failed")

	// ErrQueryFailed is wrapped by executors when the database rejected a statement.
	// Transport failures must not wrap it.
	ErrQueryFailed = errors.New("ngspec: query failed")
)

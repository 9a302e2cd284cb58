package domain

import "errors"

var (
	// ErrNotFound is returned when a record lookup by identifier has no match.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps any persistence or transport failure. Operations
	// failing with it are safe to retry.
	ErrStoreUnavailable = errors.New("schedule store unavailable")

	// ErrInvalidRange marks a date range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrConflict is returned by a guarded save when the stored plan changed
	// after the caller loaded it.
	ErrConflict = errors.New("plan was modified concurrently")

	ErrInvalidPlanType = errors.New("invalid plan type")
	ErrInvalidProject  = errors.New("invalid project")
)

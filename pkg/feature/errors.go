package feature

import "errors"

var (
	// ErrFlagNotFound indicates no flag exists for the requested key.
	ErrFlagNotFound = errors.New("feature: flag not found")

	// ErrInvalidFlag indicates a stored flag could not be decoded.
	ErrInvalidFlag = errors.New("feature: invalid flag configuration")

	// ErrRegistryUnavailable indicates the flag store could not be reached.
	ErrRegistryUnavailable = errors.New("feature: flag registry unavailable")

	// ErrNilClient is returned when a registry is built without a backend
	// client.
	ErrNilClient = errors.New("feature: backend client is required")
)

package routemap

import "errors"

var (
	// ErrInvalidRule indicates a rule with a missing method or permission,
	// a pattern not starting with "/", or a wildcard embedded inside a
	// segment.
	ErrInvalidRule = errors.New("routemap: invalid rule")

	// ErrConflictingRules indicates two exact rules for the same method
	// and path with different permissions.
	ErrConflictingRules = errors.New("routemap: conflicting rules")
)

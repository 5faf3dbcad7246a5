package permission

import "errors"

var (
	// ErrNilSource is returned when a Resolver is constructed without a
	// table source.
	ErrNilSource = errors.New("permission: table source is required")
)

package tier

import "errors"

var (
	// ErrInvalidPermissionKey indicates a permission-set entry that does not
	// follow the resource:action[:limitSpec] form.
	ErrInvalidPermissionKey = errors.New("tier: invalid permission key")

	// ErrUnknownTier indicates a permission set keyed by a tier outside the
	// known order.
	ErrUnknownTier = errors.New("tier: unknown tier")

	// ErrNotMonotonic indicates a table where a lower tier unconditionally
	// grants a permission some higher tier does not.
	ErrNotMonotonic = errors.New("tier: permission table is not monotonic")

	// ErrFailedToLoadTable indicates the table source could not be read.
	ErrFailedToLoadTable = errors.New("tier: failed to load permission table")
)

package tier

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the parts of a permission key (e.g. "jobs:apply:3").
const Delimiter = ":"

// Wildcard grants every permission. Only expected in the Enterprise grant set.
const Wildcard = "*"

// LimitKind tags the variants of a parsed limit specifier.
type LimitKind int

const (
	// LimitBoolean is a plain grant with no quota attached.
	LimitBoolean LimitKind = iota
	// LimitUnlimited is an explicit "unlimited" grant. It behaves like a
	// boolean grant but documents that a quota exists at lower tiers.
	LimitUnlimited
	// LimitQuota caps usage at N per window.
	LimitQuota
)

func (k LimitKind) String() string {
	switch k {
	case LimitBoolean:
		return "boolean"
	case LimitUnlimited:
		return "unlimited"
	case LimitQuota:
		return "quota"
	default:
		return "unknown"
	}
}

// Limit is the parsed form of a permission key's limit specifier. String
// suffixes like "jobs:apply:3" are parsed exactly once at table load time;
// nothing re-parses them per request.
type Limit struct {
	Kind LimitKind
	N    int64
}

// Boolean returns a plain grant limit.
func Boolean() Limit { return Limit{Kind: LimitBoolean} }

// Unlimited returns an explicit unlimited limit.
func Unlimited() Limit { return Limit{Kind: LimitUnlimited} }

// Quota returns a limit capped at n per window.
func Quota(n int64) Limit { return Limit{Kind: LimitQuota, N: n} }

// IsQuota reports whether the limit caps usage.
func (l Limit) IsQuota() bool { return l.Kind == LimitQuota }

// Grant is one parsed entry of a tier's permission set.
type Grant struct {
	// Key is the permission the grant covers. For quota and unlimited
	// entries this is the two-part "resource:action" prefix; for boolean
	// entries it is the full key, which may carry a sub-action such as
	// "feed:post:text".
	Key   string
	Limit Limit
}

// unlimitedSpecs are limit specifiers that lift a quota entirely. The legacy
// config encodes both "unlimited" and "all".
var unlimitedSpecs = map[string]bool{
	"unlimited": true,
	"all":       true,
}

// ParseGrant parses a single permission-set entry. The accepted forms are:
//
//	resource:action             plain grant
//	resource:action:N           quota of N per window (N > 0)
//	resource:action:unlimited   explicit unlimited grant
//	resource:action:sub         plain grant of a sub-action
//
// The Wildcard entry "*" is handled by the table, not here.
func ParseGrant(s string) (Grant, error) {
	parts := strings.Split(s, Delimiter)
	for _, p := range parts {
		if p == "" {
			return Grant{}, fmt.Errorf("%w: %q", ErrInvalidPermissionKey, s)
		}
	}

	switch {
	case len(parts) == 2:
		return Grant{Key: s, Limit: Boolean()}, nil
	case len(parts) == 3:
		key := parts[0] + Delimiter + parts[1]
		spec := parts[2]
		if unlimitedSpecs[spec] {
			return Grant{Key: key, Limit: Unlimited()}, nil
		}
		if n, err := strconv.ParseInt(spec, 10, 64); err == nil {
			if n <= 0 {
				return Grant{}, fmt.Errorf("%w: quota must be positive in %q", ErrInvalidPermissionKey, s)
			}
			return Grant{Key: key, Limit: Quota(n)}, nil
		}
		// Non-numeric suffix is a sub-action, granted as-is.
		return Grant{Key: s, Limit: Boolean()}, nil
	default:
		return Grant{}, fmt.Errorf("%w: %q", ErrInvalidPermissionKey, s)
	}
}

// SplitKey returns the resource and action parts of a permission key.
// The resource doubles as the feature category for quota window selection.
func SplitKey(key string) (resource, action string) {
	parts := strings.SplitN(key, Delimiter, 3)
	resource = parts[0]
	if len(parts) > 1 {
		action = parts[1]
	}
	return resource, action
}

// Prefix returns the two-part "resource:action" prefix of a permission key,
// or the key itself when it has fewer than three parts.
func Prefix(key string) string {
	parts := strings.SplitN(key, Delimiter, 3)
	if len(parts) < 3 {
		return key
	}
	return parts[0] + Delimiter + parts[1]
}

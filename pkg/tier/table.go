package tier

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// grantSet is a tier's parsed permission set.
type grantSet struct {
	wildcard bool
	byKey    map[string]Limit
	raw      []string // original entries in declaration order, for Keys
}

// Table maps tiers to their parsed permission sets. A Table is immutable once
// built; it is intended to be versioned deploy-time configuration injected
// into a resolver, never a mutable global.
type Table struct {
	version string
	tiers   map[Tier]grantSet
}

// NewTable parses raw permission sets into a Table. Every entry is parsed
// exactly once here; lookups never touch the string forms again.
func NewTable(version string, raw map[Tier][]string) (Table, error) {
	tiers := make(map[Tier]grantSet, len(raw))
	for t, entries := range raw {
		if !t.Valid() {
			return Table{}, fmt.Errorf("%w: %q", ErrUnknownTier, t)
		}
		gs := grantSet{
			byKey: make(map[string]Limit, len(entries)),
			raw:   slices.Clone(entries),
		}
		for _, entry := range entries {
			if entry == Wildcard {
				gs.wildcard = true
				continue
			}
			g, err := ParseGrant(entry)
			if err != nil {
				return Table{}, fmt.Errorf("tier %q: %w", t, err)
			}
			gs.byKey[g.Key] = g.Limit
		}
		tiers[t] = gs
	}
	return Table{version: version, tiers: tiers}, nil
}

// MustTable is NewTable panicking on error, for static configuration.
func MustTable(version string, raw map[Tier][]string) Table {
	tbl, err := NewTable(version, raw)
	if err != nil {
		panic(err)
	}
	return tbl
}

// Version returns the table's configuration version.
func (tb Table) Version() string { return tb.version }

// Lookup reports whether the tier grants the permission key and with which
// limit. Resolution order: wildcard, exact key, then the two-part
// resource:action prefix for keys that carry a sub-action. Unknown tiers
// grant nothing.
func (tb Table) Lookup(t Tier, key string) (Limit, bool) {
	gs, ok := tb.tiers[t]
	if !ok {
		return Limit{}, false
	}
	if gs.wildcard {
		return Unlimited(), true
	}
	if l, ok := gs.byKey[key]; ok {
		return l, true
	}
	if p := Prefix(key); p != key {
		if l, ok := gs.byKey[p]; ok {
			return l, true
		}
	}
	return Limit{}, false
}

// HasWildcard reports whether the tier's set contains the "*" entry.
func (tb Table) HasWildcard(t Tier) bool {
	return tb.tiers[t].wildcard
}

// GrantedBy walks the tier order from cheapest to most expensive and returns
// the first tier that grants the key in any form. The second return is false
// when no tier in the table grants the key at all, which almost always means
// a configuration error rather than a legitimate deny.
func (tb Table) GrantedBy(key string) (Tier, bool) {
	for _, t := range order {
		if _, ok := tb.Lookup(t, key); ok {
			return t, true
		}
	}
	return "", false
}

// Keys returns the tier's permission entries as configured, for display
// surfaces such as pricing pages. The slice is a copy.
func (tb Table) Keys(t Tier) []string {
	return slices.Clone(tb.tiers[t].raw)
}

// CheckMonotonic verifies the tier-order invariant: any permission a lower
// tier grants unconditionally (boolean or unlimited) must also be granted by
// every higher tier. Quota grants are exempt because higher tiers replace
// them with larger or unlimited quotas. The check is a config-consistency
// guard, not something the types enforce.
func (tb Table) CheckMonotonic() error {
	var errs []error
	for i, lower := range order {
		gs, ok := tb.tiers[lower]
		if !ok {
			continue
		}
		for key, limit := range gs.byKey {
			if limit.IsQuota() {
				continue
			}
			for _, higher := range order[i+1:] {
				if _, ok := tb.tiers[higher]; !ok {
					continue
				}
				if _, granted := tb.Lookup(higher, key); !granted {
					errs = append(errs, fmt.Errorf("%w: %q grants %q but %q does not",
						ErrNotMonotonic, lower, key, higher))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Source loads a permission table from configuration.
type Source interface {
	Load(ctx context.Context) (Table, error)
}

// inMemSource serves an already-built table, mainly for tests and static
// in-process configuration.
type inMemSource struct {
	table Table
}

// NewInMemSource returns a Source serving the given table.
func NewInMemSource(table Table) Source {
	return &inMemSource{table: table}
}

func (s *inMemSource) Load(ctx context.Context) (Table, error) {
	return s.table, nil
}

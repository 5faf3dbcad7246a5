package permission

import (
	"context"
	"errors"

	"github.com/athenahq/gatekit/pkg/tier"
)

// Decision is the outcome of resolving a permission key against a tier.
type Decision struct {
	// Allowed reports whether the tier grants the key.
	Allowed bool

	// Limit is the grant's parsed limit when Allowed. A quota limit means
	// the caller must also pass a usage check.
	Limit tier.Limit

	// UpgradeTier is the cheapest tier that would grant the key when the
	// current tier does not. Empty when Allowed or when Known is false.
	UpgradeTier tier.Tier

	// Known reports whether any tier in the table grants the key at all.
	// A false value almost always means the key is misspelled or the table
	// is missing an entry; callers should surface it as a configuration
	// error, not a plain deny.
	Known bool
}

// Resolver decides whether a tier grants a permission key. Resolution is a
// pure function of (tier, key, table): given an unchanged table, repeated
// calls always return the same Decision.
type Resolver interface {
	// Resolve checks the key against the tier's permission set.
	Resolve(t tier.Tier, key string) Decision

	// TableVersion returns the version of the loaded permission table.
	TableVersion() string
}

// resolver implements Resolver over an immutable table loaded at
// construction time.
type resolver struct {
	table tier.Table
}

// NewResolver loads the permission table from the source and returns a
// Resolver bound to it. The table is never reloaded; build a new Resolver to
// pick up new configuration.
func NewResolver(ctx context.Context, src tier.Source) (Resolver, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	table, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(tier.ErrFailedToLoadTable, err)
	}
	return &resolver{table: table}, nil
}

func (r *resolver) Resolve(t tier.Tier, key string) Decision {
	if limit, ok := r.table.Lookup(t, key); ok {
		return Decision{Allowed: true, Limit: limit, Known: true}
	}

	if upgrade, ok := r.table.GrantedBy(key); ok {
		return Decision{UpgradeTier: upgrade, Known: true}
	}

	return Decision{}
}

func (r *resolver) TableVersion() string {
	return r.table.Version()
}

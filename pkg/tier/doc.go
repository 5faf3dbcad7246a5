// Package tier defines subscription tiers, permission keys, and the
// tier-to-permission table that drives entitlement decisions.
//
// Tiers form a total order from Free up to Enterprise. Each tier owns a set
// of permission keys of the form "resource:action" with an optional limit
// specifier ("resource:action:3" for a quota of three per window,
// "resource:action:unlimited" to lift a quota). String entries are parsed
// exactly once when a Table is built; request-time lookups work on the
// parsed form only.
//
// The table is deploy-time static configuration. It is loaded through the
// Source interface so callers can inject an in-memory table (tests), the
// built-in DefaultTable, or a YAML file:
//
//	src := tier.NewYAMLSource("config/tiers.yaml")
//	table, err := src.Load(ctx)
//
// Table.CheckMonotonic verifies the config invariant that a permission
// granted unconditionally at a lower tier is granted at every higher tier.
// The types cannot enforce this, so configuration should be checked at load
// time or in tests.
package tier

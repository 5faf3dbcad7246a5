// Package permission resolves permission keys against subscription tiers.
//
// A Resolver answers one question on the request hot path: does this tier
// grant this key, and if not, what is the cheapest tier that would? The
// answer is a pure function of the injected tier.Table, so decisions are
// deterministic and trivially testable with substitute tables.
//
// Resolution order follows the table semantics: wildcard, exact key, then
// the resource:action prefix for quota-style entries. When no tier in the
// table grants a key at all, Decision.Known is false; this is surfaced
// distinctly because it usually means a missing table entry rather than a
// legitimate denial.
package permission

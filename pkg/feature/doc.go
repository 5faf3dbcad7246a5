// Package feature evaluates feature flags with deterministic percentage
// rollout.
//
// A Flag combines a global on/off switch, an allow list, a deny list, and a
// rollout percentage. Evaluate applies them in strict precedence: deny list
// first, then allow list, then the enabled switch, then the percentage. A
// flag sits above tier permissions in the enforcement pipeline, so a
// disabled flag vetoes a permission the tier table would otherwise grant.
// These are kill-switch semantics.
//
// Percentage rollout uses an FNV-1a hash of "<flag key>:<caller id>" mod
// 100, so a given caller lands in the same bucket on every evaluation and
// different flags slice the population independently. Anonymous callers
// must supply a stable per-session token as their id; with no id at all a
// partial rollout resolves to off rather than re-randomizing per call.
//
// Flags live in a registry written by an administrative surface that is out
// of scope here. Three read-path implementations are provided: in-memory,
// Redis (JSON values fetched per lookup), and MongoDB.
package feature

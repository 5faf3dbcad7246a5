// Package usage implements the append-only usage ledger behind quota
// enforcement.
//
// A quota is counted per (user, feature) within a calendar window. Window
// selection is a lookup table keyed by feature category: messaging quotas
// reset daily, everything else monthly (see DefaultWindows). Records
// timestamped before the current window's start never count toward it.
//
// Two ledger implementations are provided: MemoryStore for tests and
// single-process use, and PostgresStore on pgx with a goose-managed schema.
//
// Counting and appending are deliberately not atomic together. Under
// concurrent requests near a quota boundary a small number of extra
// admissions can occur; the quota is "approximately at most N", not
// "exactly at most N". A strict guarantee would need a transactional
// reserve-then-commit step in the Store, which is left to integrators that
// need it.
//
// The Recorder wraps the ledger's append path for the post-response case:
// usage must be recorded only after a gated action completed successfully,
// and a failure to record must never fail the already-sent response. The
// Recorder retries in the background and surfaces permanent failures
// through logs and a drop counter instead of swallowing them.
package usage

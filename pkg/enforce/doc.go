// Package enforce runs the request admission pipeline that gates product
// features behind subscription tiers, feature flags, and usage quotas.
//
// A request travels through up to five stages, in order: identity,
// subscription validity, tier permission, feature flag, and quota. The
// first stage that rejects produces a structured *Denial carrying a stable
// machine-readable code and an HTTP status; a request that clears every
// stage is admitted with a *Grant describing the tier and, for
// quota-limited permissions, the remaining allowance.
//
//	enforcer, err := enforce.NewEnforcer(resolver, subs,
//		enforce.WithFlags(flags),
//		enforce.WithUsage(store, usage.DefaultWindows()),
//		enforce.WithRecorder(recorder),
//	)
//	if err != nil {
//		return err
//	}
//
//	r.With(enforcer.Require("messages:send")).Post("/api/messages", sendMessage)
//
// The Auto middleware gates by a route map instead of a fixed key, so one
// middleware instance can cover a whole API surface:
//
//	r.Use(enforcer.Auto())
//
// Denials are terminal for the request. Infrastructure failures, such as an
// unreachable subscription store, also reject the request: the pipeline
// fails closed rather than guessing a tier. Usage for quota-limited grants
// is recorded in the background only after a 2xx response, so a failed
// request never consumes quota; the recording itself is best effort and a
// dropped record under-counts rather than over-counts.
package enforce

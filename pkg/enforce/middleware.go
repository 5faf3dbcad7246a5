package enforce

import (
	"encoding/json"
	"net/http"
)

// Require returns middleware that gates the wrapped handler behind one
// permission key. The caller identity must already be in the request
// context; admitted requests carry their Grant in the context, and
// successful (2xx) responses on quota-limited grants are recorded to the
// usage ledger in the background.
func (e *Enforcer) Require(permissionKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e.serveGated(w, r, permissionKey, next)
		})
	}
}

// Auto returns middleware that gates requests by the configured route map:
// routes with a matching rule are checked against the rule's permission,
// everything else passes through untouched. NewEnforcer must have been
// given a matcher via WithMatcher.
func (e *Enforcer) Auto() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e.matcher == nil {
				next.ServeHTTP(w, r)
				return
			}
			permissionKey, ok := e.matcher.MatchRequest(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			e.serveGated(w, r, permissionKey, next)
		})
	}
}

func (e *Enforcer) serveGated(w http.ResponseWriter, r *http.Request, permissionKey string, next http.Handler) {
	callerID, _ := CallerIDFromContext(r.Context())

	grant, err := e.Check(r.Context(), callerID, permissionKey)
	if err != nil {
		e.reject(w, r, permissionKey, err)
		return
	}

	ctx := SetGrantToContext(r.Context(), grant)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(rec, r.WithContext(ctx))

	// Usage counts completed work, so record only after a success status
	// has gone out. A dropped record under-counts, which is the safe side.
	if grant.Quota != nil && rec.status >= 200 && rec.status < 300 && e.recorder != nil {
		if err := e.recorder.Record(callerID, permissionKey); err != nil {
			e.log.WarnContext(r.Context(), "usage record not queued",
				"permission", permissionKey,
				"user_id", callerID,
				"error", err,
			)
		}
	}
}

func (e *Enforcer) reject(w http.ResponseWriter, r *http.Request, permissionKey string, err error) {
	if d, ok := AsDenial(err); ok {
		e.log.InfoContext(r.Context(), "request denied",
			"permission", permissionKey,
			"code", d.Code,
			"status", d.Status,
			"state", stateOf(d.Code),
		)
		writeDenial(w, d)
		return
	}

	// Infrastructure failure: fail closed without leaking internals.
	e.log.ErrorContext(r.Context(), "admission check failed",
		"permission", permissionKey,
		"error", err,
	)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": "internal server error",
	})
}

func writeDenial(w http.ResponseWriter, d *Denial) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(d.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   d.Message,
		"code":    d.Code,
		"details": d.Details,
	})
}

// statusRecorder captures the status the handler wrote so usage recording
// can tell success from failure.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

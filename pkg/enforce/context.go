package enforce

import (
	"context"

	"github.com/google/uuid"
)

type callerIDCtxKey struct{}

// SetCallerIDToContext stores the resolved caller identity. The identity
// provider is trusted unconditionally; whatever authentication middleware
// the host runs should call this once per request.
func SetCallerIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, callerIDCtxKey{}, userID)
}

// CallerIDFromContext retrieves the resolved caller identity, if any.
func CallerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(callerIDCtxKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

type grantCtxKey struct{}

// SetGrantToContext attaches the admitted request's resolved grant for
// downstream handlers.
func SetGrantToContext(ctx context.Context, g *Grant) context.Context {
	return context.WithValue(ctx, grantCtxKey{}, g)
}

// GrantFromContext retrieves the grant attached by the pipeline. Handlers
// behind a quota-limited permission can read remaining quota from it.
func GrantFromContext(ctx context.Context) (*Grant, bool) {
	g, ok := ctx.Value(grantCtxKey{}).(*Grant)
	return g, ok
}

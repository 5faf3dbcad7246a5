package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one append-only usage ledger entry. Records are written exactly
// once per successfully completed gated action and never mutated; retention
// and cleanup are external concerns.
type Record struct {
	UserID    uuid.UUID `json:"user_id"`
	Feature   string    `json:"feature"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the usage ledger. Implementations are shared, multi-writer
// persistent stores; this package takes no cross-request locks, so counting
// and appending are individually consistent but not atomic together. Near a
// quota boundary concurrent requests can admit slightly more than the limit;
// making that strict would need a reserve-then-commit step, which is a
// product decision this package does not make.
type Store interface {
	// Append records one usage of feature by the user at the given time.
	Append(ctx context.Context, userID uuid.UUID, feature string, at time.Time) error

	// Count returns how many usages of feature the user has recorded at or
	// after since.
	Count(ctx context.Context, userID uuid.UUID, feature string, since time.Time) (int64, error)
}

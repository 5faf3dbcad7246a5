package usage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryKey struct {
	userID  uuid.UUID
	feature string
}

// MemoryStore is an in-memory usage ledger for tests and single-process
// deployments. Entries accumulate for the lifetime of the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[memoryKey][]time.Time
}

// NewMemoryStore returns an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[memoryKey][]time.Time),
	}
}

func (s *MemoryStore) Append(ctx context.Context, userID uuid.UUID, feature string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := memoryKey{userID: userID, feature: feature}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append(s.records[key], at.UTC())
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, userID uuid.UUID, feature string, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	key := memoryKey{userID: userID, feature: feature}
	since = since.UTC()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, at := range s.records[key] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

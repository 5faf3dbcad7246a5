package feature

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Registry is the read path to the flag store. Flag CRUD belongs to an
// admin surface elsewhere; enforcement only ever fetches by key.
type Registry interface {
	// Get returns the flag configuration for the key, or ErrFlagNotFound
	// if no such flag exists. A missing flag means the feature is not
	// flag-gated at all, which callers should treat as a pass.
	Get(ctx context.Context, key string) (*Flag, error)
}

// MemoryRegistry is an in-memory Registry for tests and static setups.
type MemoryRegistry struct {
	mu    sync.RWMutex
	flags map[string]*Flag
}

// NewMemoryRegistry returns a registry holding copies of the given flags.
func NewMemoryRegistry(flags ...*Flag) *MemoryRegistry {
	r := &MemoryRegistry{flags: make(map[string]*Flag, len(flags))}
	for _, f := range flags {
		if f != nil && f.Key != "" {
			r.flags[f.Key] = copyFlag(f)
		}
	}
	return r
}

func (r *MemoryRegistry) Get(ctx context.Context, key string) (*Flag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flags[key]
	if !ok {
		return nil, ErrFlagNotFound
	}
	return copyFlag(f), nil
}

// Set stores a copy of the flag, replacing any previous config for its key.
// Exposed so tests and single-process tools can adjust flags at runtime.
func (r *MemoryRegistry) Set(f *Flag) {
	if f == nil || f.Key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags[f.Key] = copyFlag(f)
}

// Delete removes the flag for the key, if present.
func (r *MemoryRegistry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flags, key)
}

func copyFlag(f *Flag) *Flag {
	out := *f
	out.AllowList = slices.Clone(f.AllowList)
	out.DenyList = slices.Clone(f.DenyList)
	out.Tags = slices.Clone(f.Tags)
	out.Metadata = maps.Clone(f.Metadata)
	return &out
}

package feature

import (
	"hash/fnv"
	"slices"
	"time"
)

// Flag is a feature flag with percentage rollout and explicit caller lists.
// Flags are created and mutated by administrators through a separate
// management surface; this package only reads and evaluates them.
type Flag struct {
	Key               string            `json:"key" bson:"key"`
	Description       string            `json:"description,omitempty" bson:"description,omitempty"`
	Enabled           bool              `json:"enabled" bson:"enabled"`
	RolloutPercentage int               `json:"rollout_percentage" bson:"rollout_percentage"`
	AllowList         []string          `json:"allow_list,omitempty" bson:"allow_list,omitempty"`
	DenyList          []string          `json:"deny_list,omitempty" bson:"deny_list,omitempty"`
	Tags              []string          `json:"tags,omitempty" bson:"tags,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"created_at,omitzero" bson:"created_at,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at,omitzero" bson:"updated_at,omitempty"`
}

// Evaluate decides whether the flag is on for the given caller. It is pure
// and deterministic: for a fixed flag config and caller it always returns
// the same answer, so a caller's experience never flaps between calls.
//
// callerID is the authenticated user id, or for anonymous callers a stable
// per-session token supplied by the caller. It must never be a value
// generated fresh per call.
//
// Precedence: deny list, allow list, the enabled switch, then percentage
// rollout bucketed by a stable hash of flag key and caller.
func Evaluate(flag *Flag, callerID string) bool {
	if flag == nil {
		return false
	}

	if len(flag.DenyList) > 0 {
		// An unidentifiable caller cannot be cleared against the deny
		// list, so fail safe.
		if callerID == "" || slices.Contains(flag.DenyList, callerID) {
			return false
		}
	}

	if callerID != "" && slices.Contains(flag.AllowList, callerID) {
		return true
	}

	if !flag.Enabled {
		return false
	}

	switch {
	case flag.RolloutPercentage >= 100:
		return true
	case flag.RolloutPercentage <= 0:
		return false
	}

	if callerID == "" {
		return false
	}

	return int(bucket(flag.Key, callerID)) < flag.RolloutPercentage
}

// bucket maps (flag, caller) to a stable value in [0,100).
func bucket(flagKey, callerID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(flagKey))
	h.Write([]byte{':'})
	h.Write([]byte(callerID))
	return h.Sum32() % 100
}

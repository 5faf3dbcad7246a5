package enforce

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/athenahq/gatekit/pkg/tier"
)

// Subscription is the read-only view of a caller's subscription as reported
// by the external subscription store.
type Subscription struct {
	Tier   tier.Tier
	Status tier.Status
}

// SubscriptionStore looks up subscriptions by caller. Implementations are
// external; ErrSubscriptionNotFound means the caller has never subscribed
// and is treated as an active Free tier, while any other error propagates
// and fails the request closed.
type SubscriptionStore interface {
	Get(ctx context.Context, userID uuid.UUID) (Subscription, error)
}

// QuotaInfo describes the quota state attached to an admitted request when
// the grant carries a finite limit.
type QuotaInfo struct {
	Limit     int64     `json:"limit"`
	Used      int64     `json:"used"`
	Remaining int64     `json:"remaining"`
	Window    string    `json:"window"`
	ResetsAt  time.Time `json:"resets_at"`
}

// Grant is the resolved context attached to an admitted request for
// downstream handlers.
type Grant struct {
	Tier       tier.Tier  `json:"tier"`
	Permission string     `json:"permission"`
	Quota      *QuotaInfo `json:"quota,omitempty"`
}

// State names the pipeline stage a request ended in, for logging.
type State string

const (
	StateUnidentified        State = "unidentified"
	StateSubscriptionChecked State = "subscription_checked"
	StatePermissionChecked   State = "permission_checked"
	StateFlagChecked         State = "flag_checked"
	StateQuotaChecked        State = "quota_checked"
	StateAdmitted            State = "admitted"
)

// stateOf maps a denial code back to the stage that produced it.
func stateOf(code Code) State {
	switch code {
	case CodeAuthRequired:
		return StateUnidentified
	case CodeSubscriptionInactive:
		return StateSubscriptionChecked
	case CodeUpgradeRequired:
		return StatePermissionChecked
	case CodeFeatureDisabled:
		return StateFlagChecked
	case CodeLimitReached:
		return StateQuotaChecked
	default:
		return StateAdmitted
	}
}

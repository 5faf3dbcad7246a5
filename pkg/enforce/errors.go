package enforce

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/athenahq/gatekit/pkg/tier"
)

var (
	// ErrNilResolver and ErrNilSubscriptionStore guard Enforcer construction.
	ErrNilResolver          = errors.New("enforce: permission resolver is required")
	ErrNilSubscriptionStore = errors.New("enforce: subscription store is required")

	// ErrSubscriptionNotFound is what SubscriptionStore implementations
	// return for callers with no subscription row. The pipeline maps it to
	// an active Free tier.
	ErrSubscriptionNotFound = errors.New("enforce: subscription not found")

	// ErrSubscriptionLookup wraps subscription store failures. The request
	// fails closed: without a readable subscription the pipeline will not
	// guess a tier.
	ErrSubscriptionLookup = errors.New("enforce: subscription lookup failed")

	// ErrFlagLookup wraps flag registry failures other than not-found.
	ErrFlagLookup = errors.New("enforce: feature flag lookup failed")

	// ErrUsageLookup wraps usage ledger count failures.
	ErrUsageLookup = errors.New("enforce: usage count failed")

	// ErrPermissionUnknown indicates a required permission key no tier in
	// the table grants. Almost always a config error: either the route map
	// names a key the table is missing, or the key is misspelled.
	ErrPermissionUnknown = errors.New("enforce: permission key granted by no tier")
)

// Code identifies why a request was denied, stable across releases for
// client consumption.
type Code string

const (
	CodeAuthRequired         Code = "AUTH_REQUIRED"
	CodeSubscriptionInactive Code = "SUBSCRIPTION_INACTIVE"
	CodeUpgradeRequired      Code = "UPGRADE_REQUIRED"
	CodeFeatureDisabled      Code = "FEATURE_DISABLED"
	CodeLimitReached         Code = "LIMIT_REACHED"
)

// Denial is a structured pipeline rejection. AUTH_REQUIRED and
// SUBSCRIPTION_INACTIVE are fatal and not worth retrying; LIMIT_REACHED is
// safe to retry after the window in its details rolls over.
type Denial struct {
	Status  int            `json:"status"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (d *Denial) Error() string {
	return fmt.Sprintf("enforce: %s (%d): %s", d.Code, d.Status, d.Message)
}

// AsDenial unwraps err into a Denial if it is one.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

func denyAuthRequired() *Denial {
	return &Denial{
		Status:  http.StatusUnauthorized,
		Code:    CodeAuthRequired,
		Message: "authentication required",
	}
}

func denySubscriptionInactive(sub Subscription) *Denial {
	return &Denial{
		Status:  http.StatusPaymentRequired,
		Code:    CodeSubscriptionInactive,
		Message: "subscription expired or inactive",
		Details: map[string]any{
			"tier":   sub.Tier,
			"status": sub.Status,
		},
	}
}

func denyUpgradeRequired(current, upgrade tier.Tier, permission string) *Denial {
	return &Denial{
		Status:  http.StatusForbidden,
		Code:    CodeUpgradeRequired,
		Message: "upgrade required for this feature",
		Details: map[string]any{
			"current_tier":  current,
			"required_tier": upgrade,
			"feature":       permission,
		},
	}
}

func denyLimitReached(permission string, q QuotaInfo, upgrade tier.Tier) *Denial {
	details := map[string]any{
		"feature":   permission,
		"limit":     q.Limit,
		"used":      q.Used,
		"window":    q.Window,
		"resets_at": q.ResetsAt,
	}
	if upgrade != "" {
		details["upgrade_tier"] = upgrade
	}
	return &Denial{
		Status:  http.StatusTooManyRequests,
		Code:    CodeLimitReached,
		Message: "usage limit reached for the current period",
		Details: details,
	}
}

func denyFeatureDisabled(permission string) *Denial {
	// Deliberately generic: rollout percentages and list membership stay
	// server-side.
	return &Denial{
		Status:  http.StatusForbidden,
		Code:    CodeFeatureDisabled,
		Message: "feature not available",
		Details: map[string]any{
			"feature": permission,
		},
	}
}

package enforce

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/athenahq/gatekit/pkg/feature"
	"github.com/athenahq/gatekit/pkg/permission"
	"github.com/athenahq/gatekit/pkg/routemap"
	"github.com/athenahq/gatekit/pkg/tier"
	"github.com/athenahq/gatekit/pkg/usage"
)

// flagKeyPrefix namespaces permission-derived flag keys in the registry so
// they cannot collide with flags other systems manage.
const flagKeyPrefix = "subscription_"

// FlagKey derives the kill-switch flag key for a permission key. The
// mapping is fixed so operators can predict the key for any permission
// without consulting code.
func FlagKey(permissionKey string) string {
	r := strings.NewReplacer(tier.Delimiter, "_", "/", "_", " ", "_")
	return flagKeyPrefix + r.Replace(permissionKey)
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithFlags enables the feature flag stage. Without it every granted
// permission is treated as flag-enabled.
func WithFlags(reg feature.Registry) Option {
	return func(e *Enforcer) { e.flags = reg }
}

// WithUsage enables quota accounting against the given ledger. Without it
// quota-limited grants admit unconditionally.
func WithUsage(store usage.Store, windows usage.Windows) Option {
	return func(e *Enforcer) {
		e.store = store
		e.windows = windows
	}
}

// WithRecorder sets the background recorder the middleware uses to write
// usage after successful responses.
func WithRecorder(rec *usage.Recorder) Option {
	return func(e *Enforcer) { e.recorder = rec }
}

// WithMatcher sets the route map used by the Auto middleware.
func WithMatcher(m *routemap.Matcher) Option {
	return func(e *Enforcer) { e.matcher = m }
}

// WithLogger sets the logger for denial and infrastructure failure logs.
func WithLogger(l *slog.Logger) Option {
	return func(e *Enforcer) { e.log = l }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Enforcer) { e.now = now }
}

// Enforcer runs the admission pipeline: identity, subscription validity,
// tier permission, feature flag, quota. Stages that are not configured are
// skipped. An Enforcer is safe for concurrent use.
type Enforcer struct {
	resolver permission.Resolver
	subs     SubscriptionStore
	flags    feature.Registry
	store    usage.Store
	windows  usage.Windows
	recorder *usage.Recorder
	matcher  *routemap.Matcher
	log      *slog.Logger
	now      func() time.Time
}

// NewEnforcer builds an Enforcer over the mandatory permission resolver and
// subscription store; flags, usage, recording, and routing are opt-in.
func NewEnforcer(resolver permission.Resolver, subs SubscriptionStore, opts ...Option) (*Enforcer, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if subs == nil {
		return nil, ErrNilSubscriptionStore
	}
	e := &Enforcer{
		resolver: resolver,
		subs:     subs,
		windows:  usage.DefaultWindows(),
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Check runs the pipeline for one caller and permission key. On admission
// it returns the resolved grant; on rejection the error is a *Denial. Any
// other error is an infrastructure failure and the request fails closed.
func (e *Enforcer) Check(ctx context.Context, callerID uuid.UUID, permissionKey string) (*Grant, error) {
	if callerID == uuid.Nil {
		return nil, denyAuthRequired()
	}

	sub, err := e.subs.Get(ctx, callerID)
	switch {
	case errors.Is(err, ErrSubscriptionNotFound):
		sub = Subscription{Tier: tier.TierFree, Status: tier.StatusActive}
	case err != nil:
		return nil, errors.Join(ErrSubscriptionLookup, err)
	}

	// Free has nothing to lapse; paid subscriptions must be usable.
	if sub.Tier != tier.TierFree && !sub.Status.IsUsable() {
		return nil, denySubscriptionInactive(sub)
	}

	d := e.resolver.Resolve(sub.Tier, permissionKey)
	if !d.Known {
		return nil, errors.Join(ErrPermissionUnknown, errors.New(permissionKey))
	}
	if !d.Allowed {
		return nil, denyUpgradeRequired(sub.Tier, d.UpgradeTier, permissionKey)
	}

	if err := e.checkFlag(ctx, callerID, permissionKey); err != nil {
		return nil, err
	}

	grant := &Grant{Tier: sub.Tier, Permission: permissionKey}
	if d.Limit.IsQuota() && e.store != nil {
		quota, err := e.checkQuota(ctx, callerID, sub.Tier, permissionKey, d.Limit.N)
		if err != nil {
			return nil, err
		}
		grant.Quota = quota
	}
	return grant, nil
}

// checkFlag applies the kill switch for a granted permission. A missing
// flag means enabled: flags are opt-in overrides, not a second grant table.
func (e *Enforcer) checkFlag(ctx context.Context, callerID uuid.UUID, permissionKey string) error {
	if e.flags == nil {
		return nil
	}
	flag, err := e.flags.Get(ctx, FlagKey(permissionKey))
	switch {
	case errors.Is(err, feature.ErrFlagNotFound):
		return nil
	case err != nil:
		return errors.Join(ErrFlagLookup, err)
	}
	if !feature.Evaluate(flag, callerID.String()) {
		return denyFeatureDisabled(permissionKey)
	}
	return nil
}

func (e *Enforcer) checkQuota(ctx context.Context, callerID uuid.UUID, current tier.Tier, permissionKey string, limit int64) (*QuotaInfo, error) {
	now := e.now().UTC()
	kind := e.windows.Kind(permissionKey)

	used, err := e.store.Count(ctx, callerID, permissionKey, kind.Start(now))
	if err != nil {
		return nil, errors.Join(ErrUsageLookup, err)
	}

	quota := QuotaInfo{
		Limit:     limit,
		Used:      used,
		Remaining: max(limit-used, 0),
		Window:    string(kind),
		ResetsAt:  kind.Next(now),
	}
	if used >= limit {
		return nil, denyLimitReached(permissionKey, quota, e.uncappedTier(current, permissionKey))
	}
	return &quota, nil
}

// uncappedTier finds the cheapest tier above current whose grant for the key
// is not a finite quota, for the upgrade hint in limit denials.
func (e *Enforcer) uncappedTier(current tier.Tier, permissionKey string) tier.Tier {
	past := false
	for _, t := range tier.Order() {
		if !past {
			past = t == current
			continue
		}
		d := e.resolver.Resolve(t, permissionKey)
		if d.Allowed && !d.Limit.IsQuota() {
			return t
		}
	}
	return ""
}

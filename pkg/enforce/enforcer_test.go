package enforce_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenahq/gatekit/pkg/enforce"
	"github.com/athenahq/gatekit/pkg/feature"
	"github.com/athenahq/gatekit/pkg/permission"
	"github.com/athenahq/gatekit/pkg/tier"
	"github.com/athenahq/gatekit/pkg/usage"
)

type memSubs struct {
	subs map[uuid.UUID]enforce.Subscription
	err  error
}

func (m *memSubs) Get(_ context.Context, userID uuid.UUID) (enforce.Subscription, error) {
	if m.err != nil {
		return enforce.Subscription{}, m.err
	}
	sub, ok := m.subs[userID]
	if !ok {
		return enforce.Subscription{}, enforce.ErrSubscriptionNotFound
	}
	return sub, nil
}

func newResolver(t *testing.T) permission.Resolver {
	t.Helper()

	r, err := permission.NewResolver(context.Background(), tier.NewInMemSource(tier.DefaultTable()))
	require.NoError(t, err)
	return r
}

func TestNewEnforcer(t *testing.T) {
	t.Parallel()

	t.Run("nil resolver", func(t *testing.T) {
		t.Parallel()

		_, err := enforce.NewEnforcer(nil, &memSubs{})
		assert.ErrorIs(t, err, enforce.ErrNilResolver)
	})

	t.Run("nil subscription store", func(t *testing.T) {
		t.Parallel()

		_, err := enforce.NewEnforcer(newResolver(t), nil)
		assert.ErrorIs(t, err, enforce.ErrNilSubscriptionStore)
	})
}

func TestCheckIdentity(t *testing.T) {
	t.Parallel()

	e, err := enforce.NewEnforcer(newResolver(t), &memSubs{})
	require.NoError(t, err)

	_, err = e.Check(context.Background(), uuid.Nil, "jobs:view")
	d, ok := enforce.AsDenial(err)
	require.True(t, ok)
	assert.Equal(t, enforce.CodeAuthRequired, d.Code)
	assert.Equal(t, 401, d.Status)
}

func TestCheckSubscription(t *testing.T) {
	t.Parallel()

	t.Run("missing subscription falls back to free", func(t *testing.T) {
		t.Parallel()

		e, err := enforce.NewEnforcer(newResolver(t), &memSubs{})
		require.NoError(t, err)

		grant, err := e.Check(context.Background(), uuid.New(), "jobs:view")
		require.NoError(t, err)
		assert.Equal(t, tier.TierFree, grant.Tier)
		assert.Nil(t, grant.Quota)
	})

	t.Run("lapsed paid subscription is rejected", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		subs := &memSubs{subs: map[uuid.UUID]enforce.Subscription{
			userID: {Tier: tier.TierCareerPremium, Status: tier.StatusPastDue},
		}}
		e, err := enforce.NewEnforcer(newResolver(t), subs)
		require.NoError(t, err)

		_, err = e.Check(context.Background(), userID, "jobs:view")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeSubscriptionInactive, d.Code)
		assert.Equal(t, 402, d.Status)
	})

	t.Run("trialing subscription is usable", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		subs := &memSubs{subs: map[uuid.UUID]enforce.Subscription{
			userID: {Tier: tier.TierCareerPremium, Status: tier.StatusTrialing},
		}}
		e, err := enforce.NewEnforcer(newResolver(t), subs)
		require.NoError(t, err)

		grant, err := e.Check(context.Background(), userID, "ai:career_compass")
		require.NoError(t, err)
		assert.Equal(t, tier.TierCareerPremium, grant.Tier)
	})

	t.Run("store failure fails closed", func(t *testing.T) {
		t.Parallel()

		e, err := enforce.NewEnforcer(newResolver(t), &memSubs{err: errors.New("connection refused")})
		require.NoError(t, err)

		_, err = e.Check(context.Background(), uuid.New(), "jobs:view")
		require.Error(t, err)
		assert.ErrorIs(t, err, enforce.ErrSubscriptionLookup)
		_, isDenial := enforce.AsDenial(err)
		assert.False(t, isDenial)
	})
}

func TestCheckPermission(t *testing.T) {
	t.Parallel()

	t.Run("upgrade required names the cheapest tier", func(t *testing.T) {
		t.Parallel()

		e, err := enforce.NewEnforcer(newResolver(t), &memSubs{})
		require.NoError(t, err)

		_, err = e.Check(context.Background(), uuid.New(), "ai:career_compass")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeUpgradeRequired, d.Code)
		assert.Equal(t, 403, d.Status)
		assert.Equal(t, tier.TierCareerPremium, d.Details["required_tier"])
		assert.Equal(t, tier.TierFree, d.Details["current_tier"])
	})

	t.Run("unknown key is a config error not a denial", func(t *testing.T) {
		t.Parallel()

		e, err := enforce.NewEnforcer(newResolver(t), &memSubs{})
		require.NoError(t, err)

		_, err = e.Check(context.Background(), uuid.New(), "jobs:teleport")
		require.Error(t, err)
		assert.ErrorIs(t, err, enforce.ErrPermissionUnknown)
		_, isDenial := enforce.AsDenial(err)
		assert.False(t, isDenial)
	})

	t.Run("enterprise wildcard grants everything", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		subs := &memSubs{subs: map[uuid.UUID]enforce.Subscription{
			userID: {Tier: tier.TierEnterprise, Status: tier.StatusActive},
		}}
		e, err := enforce.NewEnforcer(newResolver(t), subs,
			enforce.WithUsage(usage.NewMemoryStore(), usage.DefaultWindows()))
		require.NoError(t, err)

		grant, err := e.Check(context.Background(), userID, "messages:send")
		require.NoError(t, err)
		assert.Nil(t, grant.Quota, "wildcard grants are unlimited and skip the quota stage")
	})
}

func TestCheckFlag(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	subs := &memSubs{subs: map[uuid.UUID]enforce.Subscription{
		userID: {Tier: tier.TierCareerPremium, Status: tier.StatusActive},
	}}

	t.Run("disabled flag vetoes a granted permission", func(t *testing.T) {
		t.Parallel()

		flags := feature.NewMemoryRegistry(&feature.Flag{
			Key:     enforce.FlagKey("ai:career_compass"),
			Enabled: false,
		})
		e, err := enforce.NewEnforcer(newResolver(t), subs, enforce.WithFlags(flags))
		require.NoError(t, err)

		_, err = e.Check(context.Background(), userID, "ai:career_compass")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeFeatureDisabled, d.Code)
		assert.Equal(t, 403, d.Status)
	})

	t.Run("missing flag means enabled", func(t *testing.T) {
		t.Parallel()

		e, err := enforce.NewEnforcer(newResolver(t), subs, enforce.WithFlags(feature.NewMemoryRegistry()))
		require.NoError(t, err)

		_, err = e.Check(context.Background(), userID, "ai:career_compass")
		require.NoError(t, err)
	})

	t.Run("deny list beats full rollout", func(t *testing.T) {
		t.Parallel()

		flags := feature.NewMemoryRegistry(&feature.Flag{
			Key:               enforce.FlagKey("ai:career_compass"),
			Enabled:           true,
			RolloutPercentage: 100,
			DenyList:          []string{userID.String()},
		})
		e, err := enforce.NewEnforcer(newResolver(t), subs, enforce.WithFlags(flags))
		require.NoError(t, err)

		_, err = e.Check(context.Background(), userID, "ai:career_compass")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeFeatureDisabled, d.Code)
	})
}

func TestCheckQuota(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	newQuotaEnforcer := func(t *testing.T, store usage.Store) *enforce.Enforcer {
		t.Helper()

		e, err := enforce.NewEnforcer(newResolver(t), &memSubs{},
			enforce.WithUsage(store, usage.DefaultWindows()),
			enforce.WithClock(func() time.Time { return now }))
		require.NoError(t, err)
		return e
	}

	t.Run("admits under the limit with remaining quota", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		for range 9 {
			require.NoError(t, store.Append(context.Background(), userID, "messages:send", now))
		}
		e := newQuotaEnforcer(t, store)

		grant, err := e.Check(context.Background(), userID, "messages:send")
		require.NoError(t, err)
		require.NotNil(t, grant.Quota)
		assert.Equal(t, int64(10), grant.Quota.Limit)
		assert.Equal(t, int64(9), grant.Quota.Used)
		assert.Equal(t, int64(1), grant.Quota.Remaining)
		assert.Equal(t, "day", grant.Quota.Window)
		assert.Equal(t, time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), grant.Quota.ResetsAt)
	})

	t.Run("denies at the limit with reset and upgrade hints", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		for range 10 {
			require.NoError(t, store.Append(context.Background(), userID, "messages:send", now))
		}
		e := newQuotaEnforcer(t, store)

		_, err := e.Check(context.Background(), userID, "messages:send")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeLimitReached, d.Code)
		assert.Equal(t, 429, d.Status)
		assert.Equal(t, int64(10), d.Details["limit"])
		assert.Equal(t, int64(10), d.Details["used"])
		assert.Equal(t, "day", d.Details["window"])
		assert.Equal(t, time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC), d.Details["resets_at"])
		assert.Equal(t, tier.TierCareerPremium, d.Details["upgrade_tier"])
	})

	t.Run("window rollover restores quota", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		yesterday := now.Add(-24 * time.Hour)
		for range 10 {
			require.NoError(t, store.Append(context.Background(), userID, "messages:send", yesterday))
		}
		e := newQuotaEnforcer(t, store)

		grant, err := e.Check(context.Background(), userID, "messages:send")
		require.NoError(t, err)
		require.NotNil(t, grant.Quota)
		assert.Equal(t, int64(0), grant.Quota.Used)
	})

	t.Run("monthly window for non message features", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		firstOfMonth := time.Date(2025, 9, 1, 3, 0, 0, 0, time.UTC)
		for range 3 {
			require.NoError(t, store.Append(context.Background(), userID, "jobs:apply", firstOfMonth))
		}
		e := newQuotaEnforcer(t, store)

		_, err := e.Check(context.Background(), userID, "jobs:apply")
		d, ok := enforce.AsDenial(err)
		require.True(t, ok)
		assert.Equal(t, enforce.CodeLimitReached, d.Code)
		assert.Equal(t, "month", d.Details["window"])
		assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), d.Details["resets_at"])
	})

	t.Run("ledger failure fails closed", func(t *testing.T) {
		t.Parallel()

		e := newQuotaEnforcer(t, &failingStore{})

		_, err := e.Check(context.Background(), userID, "messages:send")
		require.Error(t, err)
		assert.ErrorIs(t, err, enforce.ErrUsageLookup)
		_, isDenial := enforce.AsDenial(err)
		assert.False(t, isDenial)
	})
}

type failingStore struct{}

func (failingStore) Append(context.Context, uuid.UUID, string, time.Time) error {
	return errors.New("write failed")
}

func (failingStore) Count(context.Context, uuid.UUID, string, time.Time) (int64, error) {
	return 0, errors.New("read failed")
}

func TestFlagKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "subscription_messages_send", enforce.FlagKey("messages:send"))
	assert.Equal(t, "subscription_ai_career_compass", enforce.FlagKey("ai:career_compass"))
	assert.Equal(t, "subscription_feed_post_all", enforce.FlagKey("feed:post:all"))
}

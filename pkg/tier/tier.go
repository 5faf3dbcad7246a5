package tier

// Tier identifies a subscription level. Tiers form a total order used to
// suggest the cheapest upgrade that would grant a denied permission.
type Tier string

const (
	TierFree                Tier = "FREE"
	TierCareerPremium       Tier = "PREMIUM_CAREER"
	TierProfessionalPremium Tier = "PREMIUM_PROFESSIONAL"
	TierEntrepreneurPremium Tier = "PREMIUM_ENTREPRENEUR"
	TierCreatorPremium      Tier = "PREMIUM_CREATOR"
	TierEnterprise          Tier = "ENTERPRISE"
)

// order lists all tiers from cheapest to most expensive.
var order = []Tier{
	TierFree,
	TierCareerPremium,
	TierProfessionalPremium,
	TierEntrepreneurPremium,
	TierCreatorPremium,
	TierEnterprise,
}

var ranks = func() map[Tier]int {
	m := make(map[Tier]int, len(order))
	for i, t := range order {
		m[t] = i
	}
	return m
}()

// Order returns all tiers from cheapest to most expensive.
// The returned slice is a copy and safe to modify.
func Order() []Tier {
	out := make([]Tier, len(order))
	copy(out, order)
	return out
}

// Valid reports whether t is a known tier. Unknown tiers are not an error
// anywhere in this module; they simply grant nothing.
func (t Tier) Valid() bool {
	_, ok := ranks[t]
	return ok
}

// Compare returns -1 if t is cheaper than other, 0 if equal, +1 if more
// expensive. Unknown tiers sort below Free.
func (t Tier) Compare(other Tier) int {
	ri, iok := ranks[t]
	rj, jok := ranks[other]
	if !iok {
		ri = -1
	}
	if !jok {
		rj = -1
	}
	switch {
	case ri < rj:
		return -1
	case ri > rj:
		return 1
	default:
		return 0
	}
}

// Less reports whether t is strictly cheaper than other.
func (t Tier) Less(other Tier) bool {
	return t.Compare(other) < 0
}

// Status represents the state of a subscription as reported by the
// subscription store. This package only reads it.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusTrialing  Status = "TRIALING"
	StatusPastDue   Status = "PAST_DUE"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// IsUsable reports whether a subscription in this status still entitles the
// holder to its tier's permissions. A lapsed paid subscription overrides any
// table grant.
func (s Status) IsUsable() bool {
	return s == StatusActive || s == StatusTrialing
}

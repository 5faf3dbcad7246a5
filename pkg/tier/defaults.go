package tier

// DefaultTableVersion identifies the built-in permission table revision.
const DefaultTableVersion = "2025-09"

// defaultGrants is the production permission table. Each paid tier is a
// superset of the unconditional grants below it, so the table satisfies
// CheckMonotonic. Quota entries tighten at the bottom of the order and are
// lifted to unlimited as tiers go up.
var defaultGrants = map[Tier][]string{
	TierFree: {
		"jobs:view",
		"jobs:apply:3", // per calendar month
		"feed:view",
		"feed:post:text",
		"messages:view",
		"messages:send:10", // per calendar day
		"profile:basic",
		"search:basic",
		"community:join:3",
	},
	TierCareerPremium: {
		"jobs:view",
		"jobs:apply:unlimited",
		"jobs:priority_visibility",
		"feed:view",
		"feed:post:all",
		"messages:view",
		"messages:send:unlimited",
		"profile:basic",
		"profile:advanced",
		"profile:analytics",
		"search:basic",
		"search:advanced",
		"ai:career_compass",
		"ai:salary_equity",
		"community:join:unlimited",
		"courses:preview",
		"mentor:browse",
	},
	TierProfessionalPremium: {
		"jobs:view",
		"jobs:apply:unlimited",
		"jobs:priority_visibility",
		"jobs:recruiter_access",
		"feed:view",
		"feed:post:all",
		"messages:view",
		"messages:send:unlimited",
		"messages:inmail",
		"profile:basic",
		"profile:advanced",
		"profile:analytics",
		"profile:who_viewed",
		"search:basic",
		"search:advanced",
		"search:boolean",
		"ai:career_compass",
		"ai:salary_equity",
		"ai:mentor_match",
		"community:join:unlimited",
		"community:create",
		"courses:preview",
		"courses:access",
		"mentor:browse",
		"mentor:book:3", // per calendar month
	},
	TierEntrepreneurPremium: {
		"jobs:view",
		"jobs:apply:unlimited",
		"jobs:priority_visibility",
		"jobs:recruiter_access",
		"jobs:post",
		"feed:view",
		"feed:post:all",
		"messages:view",
		"messages:send:unlimited",
		"messages:inmail",
		"profile:basic",
		"profile:advanced",
		"profile:analytics",
		"profile:who_viewed",
		"profile:business",
		"search:basic",
		"search:advanced",
		"search:boolean",
		"ai:career_compass",
		"ai:salary_equity",
		"ai:mentor_match",
		"ai:income_stream",
		"ai:opportunity_scan",
		"community:join:unlimited",
		"community:create",
		"courses:preview",
		"courses:access",
		"formation:access",
		"formation:registration",
		"capital:browse",
		"mentor:browse",
		"mentor:book:unlimited",
	},
	TierCreatorPremium: {
		"jobs:view",
		"jobs:apply:unlimited",
		"jobs:priority_visibility",
		"jobs:recruiter_access",
		"jobs:post",
		"feed:view",
		"feed:post:all",
		"feed:video:upload",
		"feed:monetize",
		"messages:view",
		"messages:send:unlimited",
		"messages:inmail",
		"profile:basic",
		"profile:advanced",
		"profile:analytics",
		"profile:analytics:advanced",
		"profile:who_viewed",
		"profile:business",
		"profile:creator",
		"search:basic",
		"search:advanced",
		"search:boolean",
		"ai:career_compass",
		"ai:salary_equity",
		"ai:mentor_match",
		"ai:income_stream",
		"ai:opportunity_scan",
		"ai:all",
		"community:join:unlimited",
		"community:create",
		"courses:preview",
		"courses:access",
		"formation:access",
		"formation:registration",
		"capital:browse",
		"creator:studio",
		"creator:monetization",
		"creator:analytics",
		"livestream:access",
		"mentor:browse",
		"mentor:book:unlimited",
		"mentor:become",
	},
	TierEnterprise: {
		Wildcard,
	},
}

// DefaultTable returns the built-in permission table.
func DefaultTable() Table {
	return MustTable(DefaultTableVersion, defaultGrants)
}

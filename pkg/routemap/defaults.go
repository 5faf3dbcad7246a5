package routemap

// DefaultRules is the production route-to-permission table. Routes not
// listed here are public as far as subscription enforcement is concerned.
func DefaultRules() []Rule {
	return []Rule{
		// Jobs
		{Method: "POST", Pattern: "/api/jobs", Permission: "jobs:post"},
		{Method: "POST", Pattern: "/api/jobs/*/apply", Permission: "jobs:apply"},
		{Method: "GET", Pattern: "/api/jobs/insights", Permission: "jobs:recruiter_access"},

		// Feed and content
		{Method: "POST", Pattern: "/api/posts/video", Permission: "feed:video:upload"},
		{Method: "POST", Pattern: "/api/posts/monetize", Permission: "feed:monetize"},

		// Messaging
		{Method: "POST", Pattern: "/api/messages", Permission: "messages:send"},
		{Method: "POST", Pattern: "/api/messages/inmail", Permission: "messages:inmail"},

		// AI features
		{Method: "POST", Pattern: "/api/ai/career-compass", Permission: "ai:career_compass"},
		{Method: "POST", Pattern: "/api/ai/salary-equity", Permission: "ai:salary_equity"},
		{Method: "POST", Pattern: "/api/ai/mentor-match", Permission: "ai:mentor_match"},
		{Method: "POST", Pattern: "/api/ai/opportunity-scan", Permission: "ai:opportunity_scan"},
		{Method: "POST", Pattern: "/api/ai/income-stream", Permission: "ai:income_stream"},

		// Formation studio
		{Method: "GET", Pattern: "/api/formation", Permission: "formation:access"},
		{Method: "POST", Pattern: "/api/formation/register", Permission: "formation:registration"},

		// Creator studio
		{Method: "GET", Pattern: "/api/creator/studio", Permission: "creator:studio"},
		{Method: "POST", Pattern: "/api/creator/monetize", Permission: "creator:monetization"},

		// Communities
		{Method: "POST", Pattern: "/api/groups", Permission: "community:create"},

		// Mentorship
		{Method: "POST", Pattern: "/api/mentor/sessions", Permission: "mentor:book"},
		{Method: "POST", Pattern: "/api/mentor/profile", Permission: "mentor:become"},

		// Courses
		{Method: "GET", Pattern: "/api/courses/*/content", Permission: "courses:access"},

		// Livestream
		{Method: "POST", Pattern: "/api/livestream/start", Permission: "livestream:access"},

		// Capital
		{Method: "GET", Pattern: "/api/capital", Permission: "capital:browse"},
	}
}

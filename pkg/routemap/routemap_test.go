package routemap_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenahq/gatekit/pkg/routemap"
)

func TestMatchDefaults(t *testing.T) {
	t.Parallel()

	m := routemap.MustMatcher(routemap.DefaultRules())

	tests := []struct {
		method   string
		path     string
		wantPerm string
		wantOK   bool
	}{
		{"POST", "/api/jobs/abc123/apply", "jobs:apply", true},
		{"POST", "/api/jobs", "jobs:post", true},
		{"GET", "/api/jobs/insights", "jobs:recruiter_access", true},
		{"POST", "/api/messages", "messages:send", true},
		{"POST", "/api/messages/inmail", "messages:inmail", true},
		{"GET", "/api/courses/go-101/content", "courses:access", true},
		{"POST", "/api/ai/career-compass", "ai:career_compass", true},
		{"GET", "/api/public/ping", "", false},
		{"GET", "/api/jobs", "", false},                    // only POST is gated
		{"POST", "/api/jobs/a/b/apply", "", false},         // wildcard is one segment
		{"POST", "/api/jobs//apply", "", false},            // empty segment never matches
		{"DELETE", "/api/jobs/abc123/apply", "", false},    // method mismatch
		{"GET", "/api/courses/go-101/preview", "", false},  // action mismatch
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			perm, ok := m.Match(tt.method, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPerm, perm)
		})
	}
}

func TestMatchRequest(t *testing.T) {
	t.Parallel()

	m := routemap.MustMatcher(routemap.DefaultRules())
	r := httptest.NewRequest("POST", "/api/jobs/abc123/apply", nil)

	perm, ok := m.MatchRequest(r)
	require.True(t, ok)
	assert.Equal(t, "jobs:apply", perm)
}

func TestMatchPriority(t *testing.T) {
	t.Parallel()

	// Two overlapping patterns; the explicit priority decides, not order.
	m := routemap.MustMatcher([]routemap.Rule{
		{Method: "GET", Pattern: "/api/files/*", Permission: "files:read", Priority: 0},
		{Method: "GET", Pattern: "/api/*/export", Permission: "files:export", Priority: 10},
	})

	perm, ok := m.Match("GET", "/api/files/export")
	require.True(t, ok)
	assert.Equal(t, "files:export", perm)
}

func TestMatchExactBeatsWildcard(t *testing.T) {
	t.Parallel()

	m := routemap.MustMatcher([]routemap.Rule{
		{Method: "GET", Pattern: "/api/reports/*", Permission: "reports:read"},
		{Method: "GET", Pattern: "/api/reports/summary", Permission: "reports:summary"},
	})

	perm, ok := m.Match("GET", "/api/reports/summary")
	require.True(t, ok)
	assert.Equal(t, "reports:summary", perm)
}

func TestMatchCaseInsensitiveMethod(t *testing.T) {
	t.Parallel()

	m := routemap.MustMatcher([]routemap.Rule{
		{Method: "post", Pattern: "/api/jobs", Permission: "jobs:post"},
	})

	perm, ok := m.Match("POST", "/api/jobs")
	require.True(t, ok)
	assert.Equal(t, "jobs:post", perm)
}

func TestNewMatcherValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []routemap.Rule
		want  error
	}{
		{
			name:  "missing method",
			rules: []routemap.Rule{{Pattern: "/a", Permission: "a:b"}},
			want:  routemap.ErrInvalidRule,
		},
		{
			name:  "missing permission",
			rules: []routemap.Rule{{Method: "GET", Pattern: "/a"}},
			want:  routemap.ErrInvalidRule,
		},
		{
			name:  "relative pattern",
			rules: []routemap.Rule{{Method: "GET", Pattern: "a/b", Permission: "a:b"}},
			want:  routemap.ErrInvalidRule,
		},
		{
			name:  "wildcard inside segment",
			rules: []routemap.Rule{{Method: "GET", Pattern: "/a/x*y", Permission: "a:b"}},
			want:  routemap.ErrInvalidRule,
		},
		{
			name: "conflicting exact rules",
			rules: []routemap.Rule{
				{Method: "GET", Pattern: "/a", Permission: "a:b"},
				{Method: "GET", Pattern: "/a", Permission: "a:c"},
			},
			want: routemap.ErrConflictingRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := routemap.NewMatcher(tt.rules)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMatchDeterministicOrder(t *testing.T) {
	t.Parallel()

	// Equal priorities fall back to pattern order, which is stable across
	// constructions regardless of input order.
	rules := []routemap.Rule{
		{Method: "GET", Pattern: "/api/*/b", Permission: "perm:one"},
		{Method: "GET", Pattern: "/api/a/*", Permission: "perm:two"},
	}

	m1 := routemap.MustMatcher(rules)
	m2 := routemap.MustMatcher([]routemap.Rule{rules[1], rules[0]})

	p1, _ := m1.Match("GET", "/api/a/b")
	p2, _ := m2.Match("GET", "/api/a/b")
	assert.Equal(t, p1, p2)
}

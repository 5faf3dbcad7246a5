package routemap

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Segment wildcard in a path pattern. Matches exactly one path segment.
const Wildcard = "*"

// Rule maps one HTTP method and path pattern to a required permission key.
// Patterns should be kept non-overlapping; when two patterns could match the
// same path, the higher Priority wins regardless of declaration order.
type Rule struct {
	Method     string
	Pattern    string
	Permission string
	Priority   int
}

// compiled is a pre-split wildcard pattern.
type compiled struct {
	segments   []string
	permission string
	priority   int
	pattern    string
}

// Matcher resolves (method, path) to a permission key. All patterns are
// compiled once at construction; matching does no allocation-heavy work and
// never builds regexps per request.
type Matcher struct {
	exact     map[string]string     // "METHOD /path" → permission
	wildcards map[string][]compiled // method → patterns, ordered
}

// NewMatcher compiles the rules. Rules with no wildcard go into an exact
// map; the rest are ordered by descending Priority with the pattern string
// as a deterministic tiebreak.
func NewMatcher(rules []Rule) (*Matcher, error) {
	m := &Matcher{
		exact:     make(map[string]string),
		wildcards: make(map[string][]compiled),
	}

	for _, r := range rules {
		method := strings.ToUpper(strings.TrimSpace(r.Method))
		if method == "" || r.Permission == "" || !strings.HasPrefix(r.Pattern, "/") {
			return nil, fmt.Errorf("%w: %s %q -> %q", ErrInvalidRule, r.Method, r.Pattern, r.Permission)
		}

		if !strings.Contains(r.Pattern, Wildcard) {
			key := method + " " + r.Pattern
			if prev, ok := m.exact[key]; ok && prev != r.Permission {
				return nil, fmt.Errorf("%w: %s", ErrConflictingRules, key)
			}
			m.exact[key] = r.Permission
			continue
		}

		segments := splitPath(r.Pattern)
		for _, s := range segments {
			if s == "" || (strings.Contains(s, Wildcard) && s != Wildcard) {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidRule, r.Method, r.Pattern)
			}
		}
		m.wildcards[method] = append(m.wildcards[method], compiled{
			segments:   segments,
			permission: r.Permission,
			priority:   r.Priority,
			pattern:    r.Pattern,
		})
	}

	for method := range m.wildcards {
		patterns := m.wildcards[method]
		sort.SliceStable(patterns, func(i, j int) bool {
			if patterns[i].priority != patterns[j].priority {
				return patterns[i].priority > patterns[j].priority
			}
			return patterns[i].pattern < patterns[j].pattern
		})
	}

	return m, nil
}

// MustMatcher is NewMatcher panicking on error, for static rule tables.
func MustMatcher(rules []Rule) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the permission key required for the request, if any. A miss
// means the route is ungated and must pass through; it is never an error.
func (m *Matcher) Match(method, path string) (string, bool) {
	method = strings.ToUpper(method)

	if perm, ok := m.exact[method+" "+path]; ok {
		return perm, true
	}

	patterns := m.wildcards[method]
	if len(patterns) == 0 {
		return "", false
	}

	segments := splitPath(path)
	for _, p := range patterns {
		if matchSegments(p.segments, segments) {
			return p.permission, true
		}
	}
	return "", false
}

// MatchRequest is Match applied to an *http.Request.
func (m *Matcher) MatchRequest(r *http.Request) (string, bool) {
	return m.Match(r.Method, r.URL.Path)
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, p := range pattern {
		if p == Wildcard {
			if path[i] == "" {
				return false
			}
			continue
		}
		if p != path[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

package auth

import (
	"strings"

	"donorconnect/pkg/types"
)

// Rule protects every path that starts with Prefix.
type Rule struct {
	Prefix string
	Role   types.Role
	API    bool
}

// DefaultRules is the protected route table. Order matters, the first
// matching prefix wins.
var DefaultRules = []Rule{
	{Prefix: "/dashboard"},
	{Prefix: "/donors"},
	{Prefix: "/donations"},
	{Prefix: "/campaigns"},
	{Prefix: "/tasks"},
	{Prefix: "/ai-insights"},
	{Prefix: "/admin", Role: RequiredRole(CapViewAdmin)},
	{Prefix: "/api/donors", API: true},
	{Prefix: "/api/donations", API: true},
	{Prefix: "/api/campaigns", API: true},
	{Prefix: "/api/tasks", API: true},
	{Prefix: "/api/ai", API: true},
}

type Guard struct {
	rules []Rule
}

func NewGuard(rules []Rule) *Guard {
	return &Guard{rules: rules}
}

// Match returns the first rule whose prefix the path starts with.
func (g *Guard) Match(path string) (Rule, bool) {
	for _, rule := range g.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Check resolves the decision for a path. Unprotected paths are always allowed.
func (g *Guard) Check(path string, session *types.Session) (Rule, Decision) {
	rule, ok := g.Match(path)
	if !ok {
		return Rule{}, Allow
	}
	return rule, Authorize(session, rule.Role)
}

package auth

import "strings"

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	DecisionAllow Decision = iota
	// DecisionUnauthenticated means the route needs an identity and none is bound.
	DecisionUnauthenticated
	// DecisionForbidden means an identity is bound but lacks the required authority.
	DecisionForbidden
)

type requirementKind int

const (
	reqPublic requirementKind = iota
	reqAuthenticated
	reqAllOf
	reqAnyOf
)

// Requirement is the authority predicate attached to a rule.
type Requirement struct {
	kind        requirementKind
	authorities []string
}

// Public allows any caller, identity or not.
func Public() Requirement { return Requirement{kind: reqPublic} }

// Authenticated requires any bound identity.
func Authenticated() Requirement { return Requirement{kind: reqAuthenticated} }

// AllOf requires the identity to hold every listed authority.
func AllOf(authorities ...string) Requirement {
	return Requirement{kind: reqAllOf, authorities: authorities}
}

// AnyOf requires the identity to hold at least one listed authority.
func AnyOf(authorities ...string) Requirement {
	return Requirement{kind: reqAnyOf, authorities: authorities}
}

func (r Requirement) decide(authenticated bool, held []string) Decision {
	switch r.kind {
	case reqPublic:
		return DecisionAllow
	case reqAuthenticated:
		if authenticated {
			return DecisionAllow
		}
		return DecisionUnauthenticated
	case reqAllOf:
		if !authenticated {
			return DecisionUnauthenticated
		}
		for _, want := range r.authorities {
			if !holds(held, want) {
				return DecisionForbidden
			}
		}
		return DecisionAllow
	case reqAnyOf:
		if !authenticated {
			return DecisionUnauthenticated
		}
		for _, want := range r.authorities {
			if holds(held, want) {
				return DecisionAllow
			}
		}
		return DecisionForbidden
	default:
		return DecisionForbidden
	}
}

// Authorities are compared verbatim: case-sensitive, no prefixing.
func holds(held []string, want string) bool {
	for _, a := range held {
		if a == want {
			return true
		}
	}
	return false
}

// Rule binds a route pattern to a requirement. Method is an optional HTTP
// method restriction; empty matches every method.
type Rule struct {
	Method  string
	Pattern string
	Require Requirement
}

// Policy is an ordered rule table. The first rule whose method and pattern
// match the request governs; later rules are not consulted. Routes matched by
// no rule require any authenticated identity.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from rules in evaluation order. Register the more
// specific patterns first: a catch-all ahead of a write rule shadows it.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Evaluate resolves the decision for one request.
func (p *Policy) Evaluate(method, path string, authenticated bool, authorities []string) Decision {
	if p != nil {
		for _, rule := range p.rules {
			if rule.Method != "" && !strings.EqualFold(rule.Method, method) {
				continue
			}
			if !matchPattern(rule.Pattern, path) {
				continue
			}
			return rule.Require.decide(authenticated, authorities)
		}
	}
	return Authenticated().decide(authenticated, authorities)
}

// matchPattern matches a request path against a rule pattern. A "*" segment
// matches exactly one path segment; a trailing "**" matches the remainder,
// including nothing.
func matchPattern(pattern, path string) bool {
	pat := splitPath(pattern)
	segs := splitPath(path)
	for i, p := range pat {
		if p == "**" {
			return true
		}
		if i >= len(segs) {
			return false
		}
		if p != "*" && p != segs[i] {
			return false
		}
	}
	return len(pat) == len(segs)
}

func splitPath(s string) []string {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

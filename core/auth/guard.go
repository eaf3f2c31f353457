package auth

import "github.com/adrsy6394/SkillSpring/core/user"

// Decision is the access guard's verdict for a route.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionWait
	DecisionRedirectLogin
	DecisionRedirectForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionWait:
		return "wait"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectForbidden:
		return "redirect_forbidden"
	default:
		return "unknown"
	}
}

// Route describes a page's access requirements.
type Route struct {
	Path         string
	Public       bool      // sign-in, sign-up, landing pages
	RequiredRole user.Role // "" = any authenticated user
}

// Check decides whether route may render given the auth snapshot.
// Pure and total: it never panics, and indeterminate states resolve to
// the most restrictive applicable decision, never to Allow. Callers
// re-run it on every session, role or route change; a decision made on
// a fast-path role is re-evaluated when the authoritative role lands.
func Check(route Route, snap Snapshot) Decision {
	if route.Public {
		return DecisionAllow
	}
	if !snap.SessionPresent() {
		return DecisionRedirectLogin
	}

	switch snap.State {
	case StateFastResolved, StateAuthoritativeResolved:
		if route.RequiredRole == "" || snap.Role == route.RequiredRole {
			return DecisionAllow
		}
		return DecisionRedirectForbidden
	case StateTimedOut:
		// resolution failed outright; require a fresh sign-in rather
		// than rendering protected content on no information
		return DecisionRedirectLogin
	default: // StateUnresolved
		return DecisionWait
	}
}

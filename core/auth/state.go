package auth

import "github.com/adrsy6394/SkillSpring/core/user"

// State is the role-resolution state for the current session observation.
//
//	Unresolved -> FastResolved (optional) -> AuthoritativeResolved
//
// TimedOut is entered when the authoritative query fails with no fast
// value to fall back on. AuthoritativeResolved is terminal per session
// observation; a new session event starts over at Unresolved.
type State int

const (
	StateUnresolved State = iota
	StateFastResolved
	StateAuthoritativeResolved
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateFastResolved:
		return "fast_resolved"
	case StateAuthoritativeResolved:
		return "authoritative_resolved"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Resolved reports whether a role value is available, authoritative or not.
func (s State) Resolved() bool {
	return s == StateFastResolved || s == StateAuthoritativeResolved
}

// Snapshot is the client-held auth state at a point in time.
type Snapshot struct {
	Session *Session  `json:"-"`
	Role    user.Role `json:"role,omitempty"`
	State   State     `json:"state"`
	Loading bool      `json:"loading"`
}

func (s Snapshot) SessionPresent() bool { return s.Session != nil }

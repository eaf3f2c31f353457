package auth

import (
	"testing"

	"github.com/adrsy6394/SkillSpring/core/user"
)

func TestCheck(t *testing.T) {
	sess := &Session{Subject: "sub-1", AccessToken: "tok"}
	adminRoute := Route{Path: "/admin/dashboard", RequiredRole: user.RoleAdmin}
	anyAuthed := Route{Path: "/profile"}
	public := Route{Path: "/login", Public: true}

	tests := []struct {
		name  string
		route Route
		snap  Snapshot
		want  Decision
	}{
		{name: "public route, no session", route: public, snap: Snapshot{}, want: DecisionAllow},
		{name: "public route, with session", route: public,
			snap: Snapshot{Session: sess, Role: user.RoleStudent, State: StateAuthoritativeResolved}, want: DecisionAllow},
		{name: "no session, protected route", route: anyAuthed, snap: Snapshot{}, want: DecisionRedirectLogin},
		{name: "no session, still loading", route: adminRoute, snap: Snapshot{Loading: true}, want: DecisionRedirectLogin},
		{name: "session, unresolved role", route: adminRoute,
			snap: Snapshot{Session: sess, State: StateUnresolved}, want: DecisionWait},
		{name: "session, unresolved, loading done", route: adminRoute,
			snap: Snapshot{Session: sess, State: StateUnresolved, Loading: false}, want: DecisionWait},
		{name: "fast role matches", route: adminRoute,
			snap: Snapshot{Session: sess, Role: user.RoleAdmin, State: StateFastResolved}, want: DecisionAllow},
		{name: "fast role mismatch", route: adminRoute,
			snap: Snapshot{Session: sess, Role: user.RoleStudent, State: StateFastResolved}, want: DecisionRedirectForbidden},
		{name: "authoritative role matches", route: adminRoute,
			snap: Snapshot{Session: sess, Role: user.RoleAdmin, State: StateAuthoritativeResolved}, want: DecisionAllow},
		{name: "authoritative role mismatch", route: adminRoute,
			snap: Snapshot{Session: sess, Role: user.RoleInstructor, State: StateAuthoritativeResolved}, want: DecisionRedirectForbidden},
		{name: "any-authed route with any role", route: anyAuthed,
			snap: Snapshot{Session: sess, Role: user.RoleStudent, State: StateAuthoritativeResolved}, want: DecisionAllow},
		{name: "timed out resolution", route: anyAuthed,
			snap: Snapshot{Session: sess, State: StateTimedOut}, want: DecisionRedirectLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.route, tt.snap); got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

// the guard must never allow a protected route while the role is uncertain,
// no matter what the rest of the snapshot looks like
func TestCheck_restrictiveUnderUncertainty(t *testing.T) {
	sess := &Session{Subject: "sub-1", AccessToken: "tok"}
	route := Route{Path: "/instructor/courses", RequiredRole: user.RoleInstructor}

	for _, loading := range []bool{true, false} {
		for _, state := range []State{StateUnresolved, StateTimedOut} {
			snap := Snapshot{Session: sess, State: state, Loading: loading}
			if got := Check(route, snap); got == DecisionAllow {
				t.Errorf("Check(state=%v, loading=%v) = allow", state, loading)
			}
		}
	}
}

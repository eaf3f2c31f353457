package auth

import (
	"net/url"
	"testing"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
)

func testDispatcher() *Dispatcher {
	return NewDispatcher(core.AppsConfig{
		ShellURL:      "https://skillspring.test",
		StudentURL:    "https://student.skillspring.test",
		InstructorURL: "https://instructor.skillspring.test",
		AdminURL:      "https://admin.skillspring.test",
		LoginURL:      "https://skillspring.test/login",
	})
}

func TestDispatcher_destinationFor(t *testing.T) {
	d := testDispatcher()

	tests := []struct {
		name string
		role user.Role
		want string
	}{
		{name: "student", role: user.RoleStudent, want: "https://student.skillspring.test"},
		{name: "instructor", role: user.RoleInstructor, want: "https://instructor.skillspring.test"},
		{name: "admin", role: user.RoleAdmin, want: "https://admin.skillspring.test"},
		{name: "absent role", role: "", want: "https://skillspring.test"},
		{name: "unknown role", role: "superuser", want: "https://skillspring.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.DestinationFor(tt.role); got != tt.want {
				t.Errorf("DestinationFor(%q) = %q, want %q", tt.role, got, tt.want)
			}
		})
	}
}

func TestDispatcher_returnPathRoundTrip(t *testing.T) {
	d := testDispatcher()

	for _, returnPath := range []string{
		"/course/42",
		"/student/checkout/7?coupon=WELCOME&qty=1",
		"https://student.skillspring.test/player/9",
	} {
		loc := d.LoginRedirect(returnPath)
		u, err := url.Parse(loc)
		if err != nil {
			t.Fatalf("LoginRedirect(%q) produced unparseable URL: %v", returnPath, err)
		}
		if got := d.ReturnPath(u.Query()); got != returnPath {
			t.Errorf("round trip lost the return path: got %q, want %q", got, returnPath)
		}
	}
}

func TestDispatcher_loginRedirectWithoutReturnPath(t *testing.T) {
	d := testDispatcher()
	if got := d.LoginRedirect(""); got != "https://skillspring.test/login" {
		t.Errorf("LoginRedirect(\"\") = %q", got)
	}
}

package auth

import (
	"net/url"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
)

// RedirectParam carries the post-login return path through the central
// sign-in page.
const RedirectParam = "redirect"

// Dispatcher maps a role to the deployed front end that owns that
// role's experience. The table is configuration, not computed.
type Dispatcher struct {
	roots      map[user.Role]string
	landingURL string
	loginURL   string
}

func NewDispatcher(conf core.AppsConfig) *Dispatcher {
	return &Dispatcher{
		roots: map[user.Role]string{
			user.RoleStudent:    conf.StudentURL,
			user.RoleInstructor: conf.InstructorURL,
			user.RoleAdmin:      conf.AdminURL,
		},
		landingURL: conf.ShellURL,
		loginURL:   conf.LoginURL,
	}
}

// DestinationFor returns the canonical landing location for a role.
// Absent or unknown roles land on the public marketplace.
func (d *Dispatcher) DestinationFor(role user.Role) string {
	if root, ok := d.roots[role]; ok && root != "" {
		return root
	}
	return d.landingURL
}

// LoginRedirect returns the central sign-in location with returnPath
// embedded, so a successful sign-in lands the user exactly where they
// started. An empty returnPath yields the bare login URL.
func (d *Dispatcher) LoginRedirect(returnPath string) string {
	if returnPath == "" {
		return d.loginURL
	}
	u, err := url.Parse(d.loginURL)
	if err != nil {
		return d.loginURL
	}
	q := u.Query()
	q.Set(RedirectParam, returnPath)
	u.RawQuery = q.Encode()
	return u.String()
}

// ReturnPath extracts the embedded return path from a sign-in page
// query, or "" when none was carried.
func (d *Dispatcher) ReturnPath(query url.Values) string {
	return query.Get(RedirectParam)
}

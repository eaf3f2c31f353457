package webapp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adrsy6394/SkillSpring/core/auth"
)

const snapshotKey = "authSnapshot"

// sessionMiddleware turns the session cookie into an auth snapshot for
// the request. An unparseable or expired token is treated as no session
// and the cookie is dropped; role resolution is shared per subject via
// the registry, so a page load never re-queries an already resolved role.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var sess *auth.Session
		if cookie, err := ctx.Cookie(s.opts.Conf.Auth.SessionCookie); err == nil && cookie.Value != "" {
			sess, err = s.opts.Identity.ParseSession(cookie.Value)
			if err != nil || sess.Expired() {
				sess = nil
				s.clearSessionCookie(ctx)
			}
		}

		ctx.Set(snapshotKey, s.snapshot(ctx.Request().Context(), sess))
		return next(ctx)
	}
}

// snapshot resolves sess with the wait bounded by the safety ceiling:
// a hanging role query must not hold the request hostage. The request
// falls through to the loading page while the query keeps running on
// the resolver's own timeout, and its result lands for the next request.
func (s *server) snapshot(ctx context.Context, sess *auth.Session) auth.Snapshot {
	safety := s.opts.Conf.Auth.SafetyTimeout
	if safety <= 0 {
		safety = auth.DefaultSafetyTimeout
	}
	bounded, cancel := context.WithTimeout(ctx, safety)
	defer cancel()
	return s.registry.Snapshot(bounded, sess)
}

func getSnapshot(ctx echo.Context) auth.Snapshot {
	if snap, ok := ctx.Get(snapshotKey).(auth.Snapshot); ok {
		return snap
	}
	return auth.Snapshot{}
}

// guard enforces the access decision for route before its handler runs.
func (s *server) guard(route auth.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			snap := getSnapshot(ctx)
			switch auth.Check(route, snap) {
			case auth.DecisionAllow:
				return next(ctx)
			case auth.DecisionWait:
				return s.renderLoading(ctx)
			case auth.DecisionRedirectForbidden:
				return ctx.Redirect(http.StatusSeeOther, s.dispatcher.DestinationFor(snap.Role))
			default: // auth.DecisionRedirectLogin
				return ctx.Redirect(http.StatusSeeOther, s.dispatcher.LoginRedirect(s.currentURL(ctx)))
			}
		}
	}
}

// currentURL is the absolute location of the request on this deployment,
// suitable as a lossless post-login return path.
func (s *server) currentURL(ctx echo.Context) string {
	return s.opts.Deployment.BaseURL + ctx.Request().RequestURI
}

func (s *server) setSessionCookie(ctx echo.Context, sess *auth.Session) {
	expires := sess.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(24 * time.Hour)
	}
	ctx.SetCookie(&http.Cookie{
		Name:     s.opts.Conf.Auth.SessionCookie,
		Value:    sess.AccessToken,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *server) clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     s.opts.Conf.Auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

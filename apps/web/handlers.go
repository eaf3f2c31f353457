package webapp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

func (s *server) home(ctx echo.Context) error {
	return s.renderHome(ctx, getSnapshot(ctx))
}

// session reports the caller's auth state; the loading page polls it.
func (s *server) session(ctx echo.Context) error {
	snap := getSnapshot(ctx)
	body := echo.Map{
		"authenticated": snap.SessionPresent(),
		"state":         snap.State.String(),
		"loading":       snap.Loading,
	}
	if snap.SessionPresent() {
		body["subject"] = snap.Session.Subject
		body["email"] = snap.Session.Email
	}
	if snap.Role != "" {
		body["role"] = snap.Role
	}
	return ctx.JSON(http.StatusOK, body)
}

func (s *server) loginPage(ctx echo.Context) error {
	snap := getSnapshot(ctx)
	if snap.SessionPresent() && snap.State.Resolved() {
		return ctx.Redirect(http.StatusSeeOther, s.postLoginDestination(ctx, snap))
	}
	return s.renderLogin(ctx, s.dispatcher.ReturnPath(ctx.QueryParams()), nil)
}

func (s *server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	sess, err := s.opts.Identity.SignIn(reqCtx, data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return core.NewValidationError(auth.ErrInvalidCredentials)
		}
		return errors.Wrap(err, "signing in")
	}

	s.setSessionCookie(ctx, sess)
	if err = s.opts.UserSvc.SetLastLogin(reqCtx, sess.Subject); err != nil {
		s.opts.Logger.Warn("recording last login", err)
	}

	snap := s.snapshot(reqCtx, sess)
	if data.Redirect != "" {
		return ctx.Redirect(http.StatusSeeOther, data.Redirect)
	}
	return ctx.Redirect(http.StatusSeeOther, s.postLoginDestination(ctx, snap))
}

func (s *server) signupPage(ctx echo.Context) error {
	snap := getSnapshot(ctx)
	if snap.SessionPresent() && snap.State.Resolved() {
		return ctx.Redirect(http.StatusSeeOther, s.dispatcher.DestinationFor(snap.Role))
	}
	return s.renderSignup(ctx, nil)
}

func (s *server) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	subject, err := s.opts.Identity.SignUp(reqCtx, data.Email, data.Password, data.FullName, data.Role)
	if err != nil {
		if errors.Cause(err) == auth.ErrEmailTaken {
			return core.NewValidationError(nil, core.FieldError{Field: "email", Error: user.ErrEmailExists.Error()})
		}
		return errors.Wrap(err, "signing up")
	}

	// the provider-side trigger may insert the same record; Register is
	// idempotent so both writers win
	if _, err = s.opts.UserSvc.Register(reqCtx, subject, data); err != nil {
		return errors.Wrap(err, "registering user")
	}

	sess, err := s.opts.Identity.SignIn(reqCtx, data.Email, data.Password)
	if err != nil {
		// account exists; let the user sign in by hand
		s.opts.Logger.Warn("auto sign-in after signup failed", err)
		return ctx.Redirect(http.StatusSeeOther, s.dispatcher.LoginRedirect(""))
	}
	s.setSessionCookie(ctx, sess)

	snap := s.snapshot(reqCtx, sess)
	return ctx.Redirect(http.StatusSeeOther, s.postLoginDestination(ctx, snap))
}

func (s *server) logout(ctx echo.Context) error {
	snap := getSnapshot(ctx)
	if snap.SessionPresent() {
		reqCtx := ctx.Request().Context()
		if err := s.opts.Identity.SignOutToken(reqCtx, snap.Session.AccessToken); err != nil {
			// local sign-out still proceeds
			s.opts.Logger.Warn("revoking token at sign-out", err)
		}
		s.registry.Forget(snap.Session.Subject)
	}
	s.clearSessionCookie(ctx)
	return ctx.Redirect(http.StatusSeeOther, s.dispatcher.LoginRedirect(""))
}

// postLoginDestination routes a signed-in user to the front end owning
// their role. With the role still unresolved it falls back to the
// marketplace, whose own guard picks up once resolution lands.
func (s *server) postLoginDestination(ctx echo.Context, snap auth.Snapshot) string {
	if returnPath := s.dispatcher.ReturnPath(ctx.QueryParams()); returnPath != "" {
		return returnPath
	}
	return s.dispatcher.DestinationFor(snap.Role)
}

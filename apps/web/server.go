// Package webapp is the server shared by the SkillSpring front ends.
// Each deployment (shell, student, instructor, admin) runs the same
// server with its own role requirement and canonical base URL; the
// session middleware and access guard behave identically everywhere.
package webapp

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

type (
	// IdentityService is the slice of the identity provider the front
	// ends need: credential exchange plus request-scoped token handling.
	IdentityService interface {
		SignIn(ctx context.Context, email, password string) (*auth.Session, error)
		SignUp(ctx context.Context, email, password, fullName string, role user.Role) (string, error)
		SignOutToken(ctx context.Context, accessToken string) error
		ParseSession(accessToken string) (*auth.Session, error)
	}

	// Deployment pins down which front end this process is.
	Deployment struct {
		Name    string
		BaseURL string
		// RequiredRole guards the deployment's pages; "" admits any
		// authenticated user.
		RequiredRole user.Role
		// PublicHome makes the landing page world-readable (the shell's
		// marketplace catalog).
		PublicHome bool
		// AuthPages serves the central sign-in and sign-up pages. Only
		// the shell sets this; the other apps redirect there.
		AuthPages bool
	}

	Options struct {
		Addr           string
		Conf           *core.Config
		Deployment     Deployment
		Identity       IdentityService
		UserSvc        *user.Service
		Cache          auth.RoleCache
		Logger         core.Logger
		DisableReqLogs bool
		Shutdown       chan os.Signal
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		registry   *auth.Registry
		dispatcher *auth.Dispatcher
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	conf := opts.Conf
	s := &server{
		opts: opts,
		app:  echo.New(),
		registry: auth.NewRegistry(func() *auth.Resolver {
			return auth.NewResolver(opts.UserSvc, opts.Cache, conf.Auth.QueryTimeout, opts.Logger)
		}),
		dispatcher: auth.NewDispatcher(conf.Apps),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf
	dep := s.opts.Deployment

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.Use(s.sessionMiddleware)

	s.app.GET("/healthz", healthz)
	s.app.GET("/session", s.session)
	s.app.POST("/logout", s.logout)

	home := auth.Route{Path: "/", Public: dep.PublicHome, RequiredRole: dep.RequiredRole}
	s.app.GET("/", s.home, s.guard(home))

	dashboard := auth.Route{Path: "/dashboard", RequiredRole: dep.RequiredRole}
	s.app.GET("/dashboard", s.home, s.guard(dashboard))

	if dep.PublicHome {
		s.app.GET("/courses", s.home, s.guard(auth.Route{Path: "/courses", Public: true}))
	}

	if dep.AuthPages {
		s.app.GET("/login", s.loginPage)
		s.app.POST("/login", s.login)
		s.app.GET("/signup", s.signupPage)
		s.app.POST("/signup", s.signup)
	}
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Addr)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) signalShutdown() {
	if s.opts.Shutdown != nil {
		s.opts.Shutdown <- syscall.SIGTERM
	}
}

func healthz(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}

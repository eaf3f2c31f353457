package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// UpsertUser inserts the record or leaves an existing one untouched
		// (conflict-ignore on ID). The sign-up path may race with a
		// provider-side trigger creating the same record; both must win.
		UpsertUser(ctx context.Context, usr User) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		UpdateUserRole(ctx context.Context, id string, role Role) (User, error)
		SetLastLogin(ctx context.Context, id string, t time.Time) error
		QueryAllUsers(ctx context.Context) ([]User, error)
		// FilterUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on FullName or Email.
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// Register records the profile for a freshly signed-up subject.
// Idempotent: a concurrent provider-side insert for the same subject is ignored.
func (svc *Service) Register(ctx context.Context, subject string, nu NewUser) (User, error) {
	usr := User{
		ID:        subject,
		FullName:  nu.FullName,
		Email:     nu.Email,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	usr, err := svc.repo.UpsertUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "upserting user")
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllUsers(ctx)
	}
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		FullName:  uu.FullName,
		Email:     uu.Email,
		UpdatedAt: nullTimeNow(),
	}
	return svc.repo.UpdateUser(ctx, usr)
}

// ChangeRole promotes or demotes a user. Admin-only; callers enforce that.
func (svc *Service) ChangeRole(ctx context.Context, id string, role Role) (User, error) {
	if !role.Valid() {
		return User{}, core.NewValidationError(nil, core.FieldError{Field: "role", Error: "invalid role"})
	}
	return svc.repo.UpdateUserRole(ctx, id, role)
}

func (svc *Service) SetLastLogin(ctx context.Context, id string) error {
	return svc.repo.SetLastLogin(ctx, id, time.Now().UTC())
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Welcome to SkillSpring",
		TemplateName: "welcome",
		TemplateData: usr,
	})
}

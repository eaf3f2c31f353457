package user

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/adrsy6394/SkillSpring/core"
)

// Roles. A user holds exactly one role; it decides which front end
// owns their experience.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var (
	AllRoles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

	// SignupRoles are the roles a user may self-select at sign-up.
	// Admins are only ever promoted by another admin.
	SignupRoles = []Role{RoleStudent, RoleInstructor}

	rolePriorities = map[Role]int{
		RoleAdmin:      30,
		RoleInstructor: 20,
		RoleStudent:    10,
	}
)

func (r Role) Valid() bool {
	_, ok := rolePriorities[r]
	return ok
}

func (r Role) String() string { return string(r) }

func RolePriority(role Role) int {
	return rolePriorities[role]
}

// User is the authoritative profile record backing role resolution.
// ID matches the identity provider's subject claim.
type User struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt null.Time `json:"updated_at" db:"updated_at"`
	LastLogin null.Time `json:"last_login" db:"last_login"`
}

func (u *User) IsAdmin() bool      { return u.Role == RoleAdmin }
func (u *User) IsInstructor() bool { return u.Role == RoleInstructor }
func (u *User) IsStudent() bool    { return u.Role == RoleStudent }

// NewUser contains information needed to register a new User.
type NewUser struct {
	FullName        string `json:"full_name" form:"full_name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" form:"role" validate:"required,signuprole"`
}

func (nu *NewUser) Validate() error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.Validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func (uu *UpdateUser) Validate(origUsr User) error {
	name := core.CleanString(uu.FullName)
	if name != "" {
		uu.FullName = name
	} else {
		uu.FullName = origUsr.FullName
	}

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	return core.Validate.Struct(uu)
}

// ChangeRole is the admin-only role mutation input.
type ChangeRole struct {
	Role Role `json:"role" validate:"required,anyrole"`
}

func (cr ChangeRole) Validate() error { return core.Validate.Struct(cr) }

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []Role    `query:"role"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func nullTimeNow() null.Time { return null.TimeFrom(time.Now().UTC()) }

package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/adrsy6394/SkillSpring/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

const selectUser = `SELECT id, full_name, email, role, created_at, updated_at, last_login FROM users`

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, selectUser+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by id")
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, selectUser+` WHERE lower(email) = lower($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by email")
}

func (repo userRepository) UpsertUser(ctx context.Context, usr user.User) (user.User, error) {
	// the provider-side trigger may have inserted the row first; both
	// writers must win, so conflicts are ignored and the winner re-read
	q := `INSERT INTO users (id, full_name, email, role, created_at)
	      VALUES ($1, $2, $3, $4, $5)
	      ON CONFLICT (id) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, q, usr.ID, usr.FullName, usr.Email, usr.Role, usr.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET full_name = $2, email = $3, updated_at = $4 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, usr.ID, usr.FullName, usr.Email, usr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) UpdateUserRole(ctx context.Context, id string, role user.Role) (user.User, error) {
	q := `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id, role, null.TimeFrom(time.Now().UTC()))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user role")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, id)
}

func (repo userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	_, err := repo.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, t)
	return errors.Wrap(err, "setting last login")
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	usrs := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &usrs, selectUser+` ORDER BY created_at DESC`)
	return usrs, errors.Wrap(err, "querying all users")
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := placeholder(len(args))
		conds = append(conds, "(full_name ILIKE "+p+" OR email ILIKE "+p+")")
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, r := range filter.Roles {
			roles = append(roles, string(r))
		}
		args = append(args, pq.Array(roles))
		conds = append(conds, "role = ANY("+placeholder(len(args))+")")
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom)
		conds = append(conds, "created_at >= "+placeholder(len(args)))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo)
		conds = append(conds, "created_at <= "+placeholder(len(args)))
	}

	q := selectUser
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	usrs := make([]user.User, 0)
	err := repo.db.SelectContext(ctx, &usrs, q, args...)
	return usrs, errors.Wrap(err, "filtering users")
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

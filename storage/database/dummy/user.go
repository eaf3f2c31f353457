package dummydb

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/adrsy6394/SkillSpring/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if strings.EqualFold(usr.Email, email) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpsertUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// conflict-ignore on ID: a concurrent insert for the same subject wins
	if existing, ok := repo.db.table[usr.ID]; ok {
		return *existing, nil
	}
	for _, u := range repo.db.table {
		if strings.EqualFold(u.Email, usr.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origUsr, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	for id, u := range repo.db.table {
		if id != usr.ID && strings.EqualFold(u.Email, usr.Email) {
			return user.User{}, user.ErrEmailExists
		}
	}
	origUsr.FullName = usr.FullName
	origUsr.Email = usr.Email
	origUsr.UpdatedAt = usr.UpdatedAt

	repo.db.table[usr.ID] = origUsr
	return *origUsr, nil
}

func (repo *userRepository) UpdateUserRole(_ context.Context, id string, role user.Role) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origUsr, ok := repo.db.table[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	origUsr.Role = role
	origUsr.UpdatedAt = null.TimeFrom(time.Now().UTC())
	return *origUsr, nil
}

func (repo *userRepository) SetLastLogin(_ context.Context, id string, t time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.LastLogin = null.TimeFrom(t)
	return nil
}

func (repo *userRepository) QueryAllUsers(context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) FilterUsers(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.query()

	// users with search keyword matching FullName or Email
	if filter.Search != "" {
		var filtered []user.User
		for _, u := range users {
			if strings.Contains(strings.ToLower(u.FullName), strings.ToLower(filter.Search)) ||
				strings.Contains(strings.ToLower(u.Email), strings.ToLower(filter.Search)) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	// users with any of the specified roles
	if users != nil && len(filter.Roles) > 0 {
		var filtered []user.User
		for _, u := range users {
			for _, r := range filter.Roles {
				if u.Role == r {
					filtered = append(filtered, u)
					break
				}
			}
		}
		users = filtered
	}
	if users != nil && !filter.CreatedFrom.IsZero() {
		var filtered []user.User
		timeUTC := filter.CreatedFrom.UTC()
		for _, u := range users {
			if u.CreatedAt.Equal(timeUTC) || u.CreatedAt.After(timeUTC) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	if users != nil && !filter.CreatedTo.IsZero() {
		var filtered []user.User
		timeUTC := filter.CreatedTo.UTC()
		for _, u := range users {
			if u.CreatedAt.Before(timeUTC) || u.CreatedAt.Equal(timeUTC) {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	return users, nil
}

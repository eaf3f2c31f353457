// Package dummydb is an in-memory database for tests.
package dummydb

import (
	"sync"

	"github.com/adrsy6394/SkillSpring/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adrsy6394/SkillSpring/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email string,
	role user.Role,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		FullName:  name,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
	}
	usr, err := repo.UpsertUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

package auth

import (
	"context"

	"github.com/adrsy6394/SkillSpring/core/user"
)

const cacheKeyPrefix = "role_"

// CacheKey is the storage key for a subject's last authoritative role.
func CacheKey(subject string) string { return cacheKeyPrefix + subject }

// RoleCache records the last authoritative role seen per subject.
// Reads are optimistic fast-path hints and tolerate staleness; writes
// happen only after an authoritative success (the Resolver enforces
// that). Last-writer-wins, no locking required.
type RoleCache interface {
	Get(ctx context.Context, subject string) (user.Role, bool)
	Set(ctx context.Context, subject string, role user.Role) error
}

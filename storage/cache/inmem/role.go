// Package inmemcache is a process-local role cache for tests and
// single-instance runs.
package inmemcache

import (
	"context"
	"sync"

	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

type RoleCache struct {
	mu    sync.RWMutex
	roles map[string]user.Role
}

var _ auth.RoleCache = (*RoleCache)(nil)

func NewRoleCache() *RoleCache {
	return &RoleCache{roles: make(map[string]user.Role)}
}

func (c *RoleCache) Get(_ context.Context, subject string) (user.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	role, ok := c.roles[auth.CacheKey(subject)]
	return role, ok
}

func (c *RoleCache) Set(_ context.Context, subject string, role user.Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roles[auth.CacheKey(subject)] = role
	return nil
}

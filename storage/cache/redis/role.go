// Package rediscache backs the role fast path with Redis so hints
// survive process restarts and are shared across app instances.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

// roles are hints, not truth; let them age out
const defaultTTL = 24 * time.Hour

type RoleCache struct {
	client *redis.Client
	logger core.Logger
	ttl    time.Duration
}

var _ auth.RoleCache = (*RoleCache)(nil)

func NewRoleCache(conf *core.Config, logger core.Logger) *RoleCache {
	if logger == nil {
		logger = core.NopLogger{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	return &RoleCache{client: client, logger: logger, ttl: defaultTTL}
}

// NewRoleCacheWithClient is for tests that bring their own client.
func NewRoleCacheWithClient(client *redis.Client, logger core.Logger) *RoleCache {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &RoleCache{client: client, logger: logger, ttl: defaultTTL}
}

// Get returns the cached role hint. A miss or an unreachable server both
// report absence; the caller falls back to the authoritative path.
func (c *RoleCache) Get(ctx context.Context, subject string) (user.Role, bool) {
	val, err := c.client.Get(ctx, auth.CacheKey(subject)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("role cache read failed", err)
		}
		return "", false
	}
	role := user.Role(val)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

func (c *RoleCache) Set(ctx context.Context, subject string, role user.Role) error {
	return c.client.Set(ctx, auth.CacheKey(subject), string(role), c.ttl).Err()
}

func (c *RoleCache) Close() error { return c.client.Close() }

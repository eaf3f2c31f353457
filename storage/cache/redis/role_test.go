package rediscache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

func newTestCache(t *testing.T) (*RoleCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRoleCacheWithClient(client, nil), srv
}

func TestRoleCache_setThenGet(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "sub-1"); ok {
		t.Fatal("hit on empty cache")
	}

	if err := c.Set(ctx, "sub-1", user.RoleInstructor); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	role, ok := c.Get(ctx, "sub-1")
	if !ok || role != user.RoleInstructor {
		t.Errorf("Get() = (%v, %v), want (instructor, true)", role, ok)
	}

	// stored under the subject-scoped key
	if _, err := srv.Get(auth.CacheKey("sub-1")); err != nil {
		t.Errorf("expected key %q in redis: %v", auth.CacheKey("sub-1"), err)
	}
}

func TestRoleCache_entriesExpire(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "sub-1", user.RoleStudent); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	srv.FastForward(defaultTTL + 1)

	if _, ok := c.Get(ctx, "sub-1"); ok {
		t.Error("hint survived past its TTL")
	}
}

func TestRoleCache_garbageValueIsAMiss(t *testing.T) {
	c, srv := newTestCache(t)

	if err := srv.Set(auth.CacheKey("sub-1"), "superuser"); err != nil {
		t.Fatalf("seeding redis: %v", err)
	}
	if _, ok := c.Get(context.Background(), "sub-1"); ok {
		t.Error("unknown role value reported as a hit")
	}
}

func TestRoleCache_unreachableServerIsAMiss(t *testing.T) {
	c, srv := newTestCache(t)
	srv.Close()

	if _, ok := c.Get(context.Background(), "sub-1"); ok {
		t.Error("unreachable server reported as a hit")
	}
}

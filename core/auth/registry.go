package auth

import (
	"context"
	"sync"
	"time"
)

const defaultMaxIdle = 30 * time.Minute

// Registry hands out one resolution context per active subject, so the
// server-rendered front ends share state across requests instead of
// re-resolving on every page load. Entries are dropped on sign-out and
// swept after sitting idle.
type Registry struct {
	newResolver func() *Resolver
	maxIdle     time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	mu       sync.Mutex
	resolver *Resolver
	token    string // access token of the session observation being resolved
	lastSeen time.Time
}

func NewRegistry(newResolver func() *Resolver) *Registry {
	return &Registry{
		newResolver: newResolver,
		maxIdle:     defaultMaxIdle,
		entries:     make(map[string]*registryEntry),
	}
}

// Snapshot returns the resolution snapshot for sess, starting a new
// resolution pass when the subject has not been seen before or its
// token changed (sign-in or refresh). A nil session yields an empty,
// unauthenticated snapshot.
func (reg *Registry) Snapshot(ctx context.Context, sess *Session) Snapshot {
	if sess == nil {
		return Snapshot{}
	}

	now := time.Now()
	reg.mu.Lock()
	reg.sweepLocked(now)
	e, ok := reg.entries[sess.Subject]
	if !ok {
		e = &registryEntry{resolver: reg.newResolver()}
		reg.entries[sess.Subject] = e
	}
	reg.mu.Unlock()

	e.mu.Lock()
	e.lastSeen = now
	if e.token != sess.AccessToken {
		e.token = sess.AccessToken
		e.mu.Unlock()
		e.resolver.Resolve(ctx, sess)
	} else {
		e.mu.Unlock()
	}

	snap := e.resolver.Snapshot()
	snap.Session = sess
	return snap
}

// Forget drops a subject's resolution context; called at sign-out.
func (reg *Registry) Forget(subject string) {
	reg.mu.Lock()
	delete(reg.entries, subject)
	reg.mu.Unlock()
}

func (reg *Registry) sweepLocked(now time.Time) {
	for subject, e := range reg.entries {
		e.mu.Lock()
		idle := now.Sub(e.lastSeen)
		e.mu.Unlock()
		if idle > reg.maxIdle {
			delete(reg.entries, subject)
		}
	}
}

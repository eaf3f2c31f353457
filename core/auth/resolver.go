package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/user"
)

const DefaultQueryTimeout = 15 * time.Second

// RecordStore is the authoritative user-record lookup.
// *user.Service satisfies it.
type RecordStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Resolver produces a role for a session with minimum latency while
// guaranteeing eventual authoritative correctness.
//
// The fast path (embedded claim, then RoleCache) applies synchronously.
// The authoritative user-record query always runs exactly once per
// session observation: concurrently when a fast value exists, blocking
// otherwise. Its result supersedes the fast value and is the only thing
// that may write the RoleCache. Results belonging to a superseded
// session observation are discarded.
type Resolver struct {
	store        RecordStore
	cache        RoleCache
	queryTimeout time.Duration
	logger       core.Logger

	mu       sync.Mutex
	epoch    uint64
	session  *Session
	role     user.Role
	state    State
	onChange func(Snapshot)
}

func NewResolver(store RecordStore, cache RoleCache, queryTimeout time.Duration, logger core.Logger) *Resolver {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Resolver{
		store:        store,
		cache:        cache,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// OnChange registers fn to be invoked after every state change.
func (r *Resolver) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{Session: r.session, Role: r.role, State: r.state}
}

// Resolve starts a new resolution pass for sess. The role value is
// delivered via state updates (Snapshot / OnChange), not a return value.
// When no fast value exists Resolve waits for the authoritative attempt
// to finish, or for ctx to be done, whichever comes first; the query
// itself is bound by the resolver's own timeout either way, so a caller
// giving up early does not cancel it and a late success still lands.
func (r *Resolver) Resolve(ctx context.Context, sess *Session) {
	// fast-path hints, read before taking the state lock (the cache may do I/O)
	fast := sess.RoleClaim
	if fast == "" && r.cache != nil {
		if cached, ok := r.cache.Get(ctx, sess.Subject); ok {
			fast = cached
		}
	}

	r.mu.Lock()
	r.epoch++
	epoch := r.epoch
	r.session = sess
	r.role = fast
	if fast != "" {
		r.state = StateFastResolved
	} else {
		r.state = StateUnresolved
	}
	r.mu.Unlock()
	r.notify()

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.authoritative(epoch, sess)
	}()

	if fast == "" {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
}

// Reset clears all state; called when the session ends. Any in-flight
// authoritative result becomes stale and is discarded on arrival.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.epoch++
	r.session = nil
	r.role = ""
	r.state = StateUnresolved
	r.mu.Unlock()
	r.notify()
}

func (r *Resolver) authoritative(epoch uint64, sess *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), r.queryTimeout)
	defer cancel()

	usr, err := r.store.GetByID(ctx, sess.Subject)

	r.mu.Lock()
	if epoch != r.epoch || r.session == nil || r.session.Subject != sess.Subject {
		// a newer session observation owns the state now
		r.mu.Unlock()
		return
	}

	if err != nil {
		switch {
		case errors.Cause(err) == user.ErrNotFound:
			// sign-up trigger race: record not created yet. Role stays
			// unknown; this is not an access denial.
			r.logger.Warn("user record not found yet for subject "+sess.Subject, err)
		case errors.Cause(err) == context.DeadlineExceeded:
			r.logger.Error("authoritative role query timed out", err)
			if r.state == StateUnresolved {
				r.state = StateTimedOut
			}
		default:
			r.logger.Error("authoritative role query failed", err)
			if r.state == StateUnresolved {
				r.state = StateTimedOut
			}
		}
		// an already-set fast role is never cleared on failure
		r.mu.Unlock()
		r.notify()
		return
	}

	r.role = usr.Role
	r.state = StateAuthoritativeResolved
	r.mu.Unlock()

	// cache write only after authoritative success
	if r.cache != nil {
		if cErr := r.cache.Set(context.Background(), sess.Subject, usr.Role); cErr != nil {
			r.logger.Warn("writing role cache", cErr)
		}
	}
	r.notify()
}

func (r *Resolver) notify() {
	r.mu.Lock()
	fn := r.onChange
	snap := Snapshot{Session: r.session, Role: r.role, State: r.state}
	r.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

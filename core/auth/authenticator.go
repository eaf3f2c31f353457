package auth

import (
	"context"
	"sync"
	"time"

	"github.com/adrsy6394/SkillSpring/core"
)

const DefaultSafetyTimeout = 8 * time.Second

// Authenticator bootstraps the session and coordinates role resolution
// for one application context. It is constructed once at boot and torn
// down at sign-out; there is no ambient global auth state.
//
// The loading state is bounded by a safety timeout: if bootstrap plus
// role resolution has not completed within it, loading is forced done
// with whatever partial state exists so the UI never hangs. The safety
// timeout is independent of the resolver's query timeout and may fire
// first; a late authoritative success still lands through the normal
// resolver path.
type Authenticator struct {
	provider Provider
	resolver *Resolver
	safety   time.Duration
	logger   core.Logger

	mu          sync.Mutex
	session     *Session
	loading     bool
	subs        map[int]func(Snapshot)
	nextSub     int
	unsubscribe func()
	safetyTimer *time.Timer
}

func NewAuthenticator(provider Provider, resolver *Resolver, safety time.Duration, logger core.Logger) *Authenticator {
	if safety <= 0 {
		safety = DefaultSafetyTimeout
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	a := &Authenticator{
		provider: provider,
		resolver: resolver,
		safety:   safety,
		logger:   logger,
		loading:  true,
		subs:     make(map[int]func(Snapshot)),
	}
	resolver.OnChange(func(Snapshot) { a.broadcast() })
	return a
}

// Initialize obtains the current session and subscribes to provider
// events. Provider failures surface as an unauthenticated state; they
// are logged, never returned. Initialize comes back once the initial
// resolution pass completes or the safety timeout closes the loading
// state, whichever is first.
func (a *Authenticator) Initialize(ctx context.Context) {
	a.mu.Lock()
	a.loading = true
	a.safetyTimer = time.AfterFunc(a.safety, a.forceLoadingDone)
	a.unsubscribe = a.provider.OnSessionChange(a.handleEvent)
	a.mu.Unlock()

	sess, err := a.provider.CurrentSession(ctx)
	if err != nil {
		a.logger.Error("fetching current session", err)
		sess = nil
	}
	a.handleEvent(Event{Type: EventInitial, Session: sess})
}

// Subscribe registers handler for auth state updates. The current state
// is delivered synchronously as an initial synthetic event, then every
// future transition. The returned func unsubscribes.
func (a *Authenticator) Subscribe(handler func(Snapshot)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = handler
	a.mu.Unlock()

	handler(a.Snapshot())
	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *Authenticator) Snapshot() Snapshot {
	a.mu.Lock()
	sess := a.session
	loading := a.loading
	a.mu.Unlock()

	snap := a.resolver.Snapshot()
	snap.Session = sess
	snap.Loading = loading
	return snap
}

// SignIn authenticates against the provider; the resulting session
// event flows through handleEvent like any other.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) error {
	_, err := a.provider.SignIn(ctx, email, password)
	return err
}

// SignOut ends the session and clears resolution state. Provider
// failures are logged; local state is cleared regardless.
func (a *Authenticator) SignOut(ctx context.Context) {
	if err := a.provider.SignOut(ctx); err != nil {
		a.logger.Error("signing out", err)
	}
	a.handleEvent(Event{Type: EventSignedOut, Session: nil})
}

// Close tears the authenticator down: provider subscription removed,
// safety timer stopped.
func (a *Authenticator) Close() {
	a.mu.Lock()
	unsub := a.unsubscribe
	a.unsubscribe = nil
	if a.safetyTimer != nil {
		a.safetyTimer.Stop()
	}
	a.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (a *Authenticator) handleEvent(evt Event) {
	a.mu.Lock()
	a.session = evt.Session
	a.mu.Unlock()

	if evt.Session == nil {
		a.resolver.Reset()
		a.setLoading(false)
		return
	}

	a.broadcast()
	// Blocks only when no fast value exists, and never longer than the
	// safety ceiling. The query itself keeps running on its own timeout;
	// a result arriving after we stop waiting still lands.
	ctx, cancel := context.WithTimeout(context.Background(), a.safety)
	a.resolver.Resolve(ctx, evt.Session)
	cancel()
	a.setLoading(false)
}

func (a *Authenticator) forceLoadingDone() {
	a.mu.Lock()
	stuck := a.loading
	a.mu.Unlock()
	if stuck {
		a.logger.Warn("auth bootstrap safety timeout reached; forcing loading done")
		a.setLoading(false)
	}
}

func (a *Authenticator) setLoading(loading bool) {
	a.mu.Lock()
	changed := a.loading != loading
	a.loading = loading
	a.mu.Unlock()
	if changed {
		a.broadcast()
	}
}

func (a *Authenticator) broadcast() {
	snap := a.Snapshot()
	a.mu.Lock()
	handlers := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		handlers = append(handlers, fn)
	}
	a.mu.Unlock()
	for _, fn := range handlers {
		fn(snap)
	}
}

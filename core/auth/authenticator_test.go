package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core/user"
)

type stubProvider struct {
	mu       sync.Mutex
	session  *Session
	err      error
	handlers []func(Event)
}

func (p *stubProvider) CurrentSession(context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session, p.err
}

func (p *stubProvider) OnSessionChange(handler func(Event)) func() {
	p.mu.Lock()
	p.handlers = append(p.handlers, handler)
	p.mu.Unlock()
	return func() {}
}

func (p *stubProvider) SignIn(_ context.Context, email, _ string) (*Session, error) {
	p.mu.Lock()
	sess := &Session{Subject: "sub-signin", Email: email, AccessToken: "tok-signin"}
	p.session = sess
	handlers := append([]func(Event){}, p.handlers...)
	p.mu.Unlock()
	for _, h := range handlers {
		h(Event{Type: EventSignedIn, Session: sess})
	}
	return sess, nil
}

func (p *stubProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	return nil
}

func TestAuthenticator_initializeWithSession(t *testing.T) {
	store := &stubStore{users: map[string]user.User{
		"sub-1": {ID: "sub-1", Role: user.RoleStudent},
	}}
	provider := &stubProvider{session: &Session{Subject: "sub-1", AccessToken: "tok"}}
	a := NewAuthenticator(provider, NewResolver(store, newStubCache(), time.Second, nil), time.Second, nil)
	defer a.Close()

	a.Initialize(context.Background())

	snap := a.Snapshot()
	if snap.Loading {
		t.Errorf("still loading after initialize")
	}
	if !snap.SessionPresent() || snap.Role != user.RoleStudent {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestAuthenticator_providerErrorMeansUnauthenticated(t *testing.T) {
	provider := &stubProvider{err: errors.New("identity provider unreachable")}
	store := &stubStore{users: map[string]user.User{}}
	a := NewAuthenticator(provider, NewResolver(store, newStubCache(), time.Second, nil), time.Second, nil)
	defer a.Close()

	a.Initialize(context.Background()) // must not panic or propagate

	snap := a.Snapshot()
	if snap.SessionPresent() {
		t.Errorf("session present despite provider error")
	}
	if snap.Loading {
		t.Errorf("still loading after failed initialize")
	}
}

func TestAuthenticator_safetyTimeoutEndsLoading(t *testing.T) {
	// authoritative query hangs well past the safety ceiling and there is
	// no fast value: loading must still end, bounded by the safety timeout.
	store := &stubStore{delays: map[string]time.Duration{"sub-1": time.Hour}}
	provider := &stubProvider{session: &Session{Subject: "sub-1", AccessToken: "tok"}}
	resolver := NewResolver(store, newStubCache(), time.Hour, nil)
	a := NewAuthenticator(provider, resolver, 100*time.Millisecond, nil)
	defer a.Close()

	start := time.Now()
	a.Initialize(context.Background())
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("initialize blocked %v, want bounded by safety timeout", elapsed)
	}
	if snap := a.Snapshot(); snap.Loading {
		t.Errorf("loading not forced done by safety timeout")
	}
}

func TestAuthenticator_subscribeDeliversInitialState(t *testing.T) {
	store := &stubStore{users: map[string]user.User{
		"sub-signin": {ID: "sub-signin", Role: user.RoleInstructor},
	}}
	provider := &stubProvider{}
	a := NewAuthenticator(provider, NewResolver(store, newStubCache(), time.Second, nil), time.Second, nil)
	defer a.Close()
	a.Initialize(context.Background())

	var mu sync.Mutex
	var got []Snapshot
	unsub := a.Subscribe(func(s Snapshot) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	defer unsub()

	mu.Lock()
	if len(got) == 0 {
		mu.Unlock()
		t.Fatal("no synthetic initial event delivered")
	}
	if got[0].SessionPresent() {
		t.Errorf("initial snapshot has a session before sign-in")
	}
	mu.Unlock()

	if err := a.SignIn(context.Background(), "ada@test.dev", "pwd"); err != nil {
		t.Fatalf("SignIn() failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := a.Snapshot()
		if snap.SessionPresent() && snap.State == StateAuthoritativeResolved {
			if snap.Role != user.RoleInstructor {
				t.Errorf("role after sign-in = %v, want instructor", snap.Role)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("sign-in event never resolved a role")
}

func TestAuthenticator_signOutClearsState(t *testing.T) {
	store := &stubStore{users: map[string]user.User{
		"sub-1": {ID: "sub-1", Role: user.RoleAdmin},
	}}
	provider := &stubProvider{session: &Session{Subject: "sub-1", AccessToken: "tok"}}
	a := NewAuthenticator(provider, NewResolver(store, newStubCache(), time.Second, nil), time.Second, nil)
	defer a.Close()
	a.Initialize(context.Background())

	a.SignOut(context.Background())

	snap := a.Snapshot()
	if snap.SessionPresent() || snap.Role != "" || snap.State != StateUnresolved {
		t.Errorf("state not cleared at sign-out: %+v", snap)
	}
}

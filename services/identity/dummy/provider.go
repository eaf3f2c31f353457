// Package dummyid is an in-memory identity provider for tests and local
// runs without a hosted provider.
package dummyid

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

type account struct {
	id           string
	email        string
	fullName     string
	passwordHash []byte
	role         user.Role
}

type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account       // keyed by email
	sessions map[string]*auth.Session  // keyed by access token
	current  *auth.Session
	handlers map[int]func(auth.Event)
	nextID   int
}

var _ auth.Provider = (*Provider)(nil)

func NewProvider() *Provider {
	return &Provider{
		accounts: make(map[string]*account),
		sessions: make(map[string]*auth.Session),
		handlers: make(map[int]func(auth.Event)),
	}
}

func (p *Provider) SignUp(_ context.Context, email, password, fullName string, role user.Role) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[email]; exists {
		return "", auth.ErrEmailTaken
	}
	acct := &account{
		id:           uuid.NewString(),
		email:        email,
		fullName:     fullName,
		passwordHash: hash,
		role:         role,
	}
	p.accounts[email] = acct
	return acct.id, nil
}

func (p *Provider) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	p.mu.Lock()
	acct, ok := p.accounts[email]
	p.mu.Unlock()
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	sess := &auth.Session{
		Subject:     acct.id,
		Email:       acct.email,
		AccessToken: uuid.NewString(),
		RoleClaim:   acct.role,
	}

	p.mu.Lock()
	p.sessions[sess.AccessToken] = sess
	p.current = sess
	p.mu.Unlock()

	p.notify(auth.Event{Type: auth.EventSignedIn, Session: sess})
	return sess, nil
}

func (p *Provider) SignOut(context.Context) error {
	p.mu.Lock()
	if p.current != nil {
		delete(p.sessions, p.current.AccessToken)
	}
	p.current = nil
	p.mu.Unlock()

	p.notify(auth.Event{Type: auth.EventSignedOut})
	return nil
}

func (p *Provider) SignOutToken(_ context.Context, accessToken string) error {
	p.mu.Lock()
	delete(p.sessions, accessToken)
	if p.current != nil && p.current.AccessToken == accessToken {
		p.current = nil
	}
	p.mu.Unlock()
	return nil
}

func (p *Provider) CurrentSession(context.Context) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

// ParseSession resolves an issued token back to its session, standing in
// for token verification.
func (p *Provider) ParseSession(accessToken string) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[accessToken]
	if !ok {
		return nil, errors.New("dummyid: unknown access token")
	}
	return sess, nil
}

func (p *Provider) OnSessionChange(handler func(auth.Event)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

func (p *Provider) notify(evt auth.Event) {
	p.mu.Lock()
	handlers := make([]func(auth.Event), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()
	for _, h := range handlers {
		h(evt)
	}
}

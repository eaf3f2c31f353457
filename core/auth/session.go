package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core/user"
)

// Provider errors every implementation maps onto, so callers can branch
// without knowing which provider is wired in.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Session is the application's view of a provider-issued credential.
// The provider owns the credential; this is only a parsed reference.
type Session struct {
	Subject     string // identity provider user id (uuid)
	Email       string
	AccessToken string
	RoleClaim   user.Role // embedded role claim; "" when the token carries none
	ExpiresAt   time.Time
}

func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Session lifecycle events, mirroring the provider's notifications.
type EventType string

const (
	EventInitial        EventType = "INITIAL_SESSION"
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

type Event struct {
	Type    EventType
	Session *Session // nil when signed out
}

// Provider is the hosted identity service. The auth package is a pure
// consumer; it never implements authentication itself.
type Provider interface {
	// CurrentSession returns the active session, or nil when unauthenticated.
	CurrentSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers handler for every session lifecycle event.
	// The returned func unsubscribes it.
	OnSessionChange(handler func(Event)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

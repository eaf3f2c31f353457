// Package identity talks to the hosted identity provider (a GoTrue-style
// HTTP API). It owns credentials end to end: the rest of the codebase only
// ever sees parsed auth.Session values.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/adrsy6394/SkillSpring/core"
	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

type Client struct {
	baseURL   string
	anonKey   string
	jwtSecret []byte
	hc        *http.Client
	logger    core.Logger

	mu       sync.Mutex
	session  *auth.Session
	handlers map[int]func(auth.Event)
	nextID   int
}

var _ auth.Provider = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Client{
		baseURL:   conf.Identity.BaseURL,
		anonKey:   conf.Identity.AnonKey,
		jwtSecret: []byte(conf.Identity.JWTSecret),
		hc:        &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
		handlers:  make(map[int]func(auth.Event)),
	}
}

// sessionClaims is the provider's access token payload.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email"`
	UserMetadata struct {
		Role user.Role `json:"role"`
	} `json:"user_metadata"`
}

// ParseSession verifies accessToken and returns the session it encodes.
// The embedded role claim is advisory; the user-record store stays
// authoritative.
func (c *Client) ParseSession(accessToken string) (*auth.Session, error) {
	claims := new(sessionClaims)
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "identity: parsing access token")
	}

	sess := &auth.Session{
		Subject:     claims.Subject,
		Email:       claims.Email,
		AccessToken: accessToken,
		RoleClaim:   claims.UserMetadata.Role,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Role user.Role `json:"role"`
		} `json:"user_metadata"`
	} `json:"user"`
}

type apiError struct {
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) text() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	return e.Msg
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/token?grant_type=password", body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		return nil, auth.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpected(resp)
	}

	var tr tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, errors.Wrap(err, "identity: decoding token response")
	}

	sess, err := c.ParseSession(tr.AccessToken)
	if err != nil {
		// token verification failed but the provider accepted the
		// credentials; fall back to the response envelope
		c.logger.Warn("identity: access token not verifiable, using response body", err)
		sess = &auth.Session{
			Subject:     tr.User.ID,
			Email:       tr.User.Email,
			AccessToken: tr.AccessToken,
			RoleClaim:   tr.User.UserMetadata.Role,
			ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
		}
	}

	c.setSession(sess, auth.EventSignedIn)
	return sess, nil
}

// SignUp registers a new account with the provider, storing the chosen
// role in the token metadata. Returns the provider-assigned subject id.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string, role user.Role) (string, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]interface{}{
			"full_name": fullName,
			"role":      role,
		},
	}
	resp, err := c.post(ctx, "/signup", body, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
		return "", auth.ErrEmailTaken
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.unexpected(resp)
	}

	var sr struct {
		ID   string `json:"id"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", errors.Wrap(err, "identity: decoding signup response")
	}
	if sr.ID != "" {
		return sr.ID, nil
	}
	return sr.User.ID, nil
}

// Refresh exchanges a refresh token for a fresh session. The refreshed
// session flows to subscribers as a token-refresh event.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := c.post(ctx, "/token?grant_type=refresh_token", body, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.unexpected(resp)
	}

	var tr tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, errors.Wrap(err, "identity: decoding token response")
	}
	sess, err := c.ParseSession(tr.AccessToken)
	if err != nil {
		return nil, err
	}

	c.setSession(sess, auth.EventTokenRefreshed)
	return sess, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	var err error
	if sess != nil {
		err = c.SignOutToken(ctx, sess.AccessToken)
	}
	c.setSession(nil, auth.EventSignedOut)
	return err
}

// SignOutToken revokes a single token, for request-scoped sign-out where
// the client holds no session of its own.
func (c *Client) SignOutToken(ctx context.Context, accessToken string) error {
	resp, err := c.post(ctx, "/logout", nil, accessToken)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return c.unexpected(resp)
	}
	return nil
}

func (c *Client) CurrentSession(context.Context) (*auth.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.session.Expired() {
		return nil, nil
	}
	return c.session, nil
}

func (c *Client) OnSessionChange(handler func(auth.Event)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.handlers[id] = handler
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers, id)
	}
}

func (c *Client) setSession(sess *auth.Session, evt auth.EventType) {
	c.mu.Lock()
	c.session = sess
	handlers := make([]func(auth.Event), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(auth.Event{Type: evt, Session: sess})
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}, bearer string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, errors.Wrap(err, "identity: encoding request")
		}
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "identity: building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.hc.Do(req)
	return resp, errors.Wrap(err, "identity: calling provider")
}

func (c *Client) unexpected(resp *http.Response) error {
	var apiErr apiError
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	if txt := apiErr.text(); txt != "" {
		return errors.Errorf("identity: provider responded %d: %s", resp.StatusCode, txt)
	}
	return errors.Errorf("identity: provider responded %d", resp.StatusCode)
}

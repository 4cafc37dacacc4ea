// internal/domain/identity/client.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
)

// Client is the HTTP implementation of Provider against a GoTrue-style
// auth API. It caches the current session in memory and fans auth-state
// events out to subscribers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(Event, *Session)
	nextID    int
}

// NewClient creates a provider client from config.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.Identity.BaseURL, "/"),
		apiKey:  cfg.Identity.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Identity.Timeout,
		},
		logger:    logger,
		listeners: make(map[int]func(Event, *Session)),
	}
}

// Session returns the cached session, dropping it first when expired.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, nil
	}
	if sessionExpired(c.session) {
		c.logger.Debug("cached session expired, discarding")
		c.session = nil
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

// SignUp creates credentials with the provider.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]interface{}{
			"name":      name,
			"full_name": name,
		},
	}

	var session Session
	if err := c.post(ctx, "/signup", body, &session); err != nil {
		return nil, err
	}

	// Providers with email confirmation disabled return a session directly.
	if session.AccessToken != "" {
		c.setSession(&session, EventSignedIn)
	}
	return &session, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.post(ctx, "/token?grant_type=password", body, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &ProviderError{Message: "provider returned no access token"}
	}

	c.setSession(&session, EventSignedIn)
	return &session, nil
}

// OAuthURL builds the federated sign-in URL.
func (c *Client) OAuthURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode()
}

// AdoptSession installs an access token delivered in the OAuth redirect
// fragment as the current session.
func (c *Client) AdoptSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, &ProviderError{Message: "no access token provided"}
	}

	session := &Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}
	if exp, ok := tokenExpiry(accessToken); ok && exp.Before(time.Now()) {
		return nil, &ProviderError{Message: "access token already expired"}
	}

	c.setSession(session, EventSignedIn)
	return session, nil
}

// SignOut revokes the session with the provider. The cached session is
// cleared even when the revocation call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := ""
	if c.session != nil {
		token = c.session.AccessToken
	}
	c.mu.Unlock()

	var err error
	if token != "" {
		err = c.postAuthed(ctx, "/logout", token, nil, nil)
	}

	c.setSession(nil, EventSignedOut)
	return err
}

// SendPasswordReset asks the provider to email a recovery link.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.post(ctx, path, map[string]string{"email": email}, nil)
}

// UpdatePassword changes the current user's password. A session (normal
// or recovery) must already be established.
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	session, err := c.Session(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return &ProviderError{Message: "no active session"}
	}

	return c.request(ctx, http.MethodPut, "/user", session.AccessToken, map[string]string{"password": newPassword}, nil)
}

// VerifyRecovery exchanges a query-format recovery token for a session.
func (c *Client) VerifyRecovery(ctx context.Context, tokenHash string) (*Session, error) {
	body := map[string]string{
		"type":       "recovery",
		"token_hash": tokenHash,
	}

	var session Session
	if err := c.post(ctx, "/verify", body, &session); err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &ProviderError{Message: "recovery token did not produce a session"}
	}

	c.setSession(&session, EventPasswordRecovery)
	return &session, nil
}

// OnAuthStateChange registers a listener and returns its unsubscribe.
func (c *Client) OnAuthStateChange(fn func(Event, *Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// setSession swaps the cached session and notifies listeners. Listeners
// run outside the lock so they may call back into the client.
func (c *Client) setSession(session *Session, event Event) {
	if session != nil {
		normalizeExpiry(session)
	}

	c.mu.Lock()
	c.session = session
	fns := make([]func(Event, *Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.request(ctx, http.MethodPost, path, "", body, out)
}

func (c *Client) postAuthed(ctx context.Context, path, token string, body, out interface{}) error {
	return c.request(ctx, http.MethodPost, path, token, body, out)
}

func (c *Client) request(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newProviderError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}

// normalizeExpiry fills Session.ExpiresAt from the token's exp claim,
// falling back to the expires_in field.
func normalizeExpiry(s *Session) {
	if exp, ok := tokenExpiry(s.AccessToken); ok {
		s.ExpiresAt = exp
		return
	}
	if s.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}
}

// tokenExpiry reads the exp claim without verifying the signature.
// Verification is the backend's job; the client only needs to know when
// to stop presenting the token.
func tokenExpiry(accessToken string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func sessionExpired(s *Session) bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

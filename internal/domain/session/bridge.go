// internal/domain/session/bridge.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/pkg/rest"
)

// Bridge reconciles the identity provider's session with the backend's
// user record. It owns the in-memory Identity; every other component
// reads it through CurrentIdentity and authenticates calls through
// AuthHeaders.
type Bridge struct {
	provider identity.Provider
	api      *rest.Client
	cfg      config.SessionConfig
	logger   *logrus.Logger

	mu        sync.Mutex
	identity  *Identity
	ready     bool
	resyncGen uint64
	listeners map[int]func(*Identity)
	nextID    int

	unsubscribe func()
}

// NewBridge creates a session bridge and subscribes it to the provider's
// auth-state notifications. Call Close to unsubscribe.
func NewBridge(provider identity.Provider, api *rest.Client, cfg config.SessionConfig, logger *logrus.Logger) *Bridge {
	b := &Bridge{
		provider:  provider,
		api:       api,
		cfg:       cfg,
		logger:    logger,
		listeners: make(map[int]func(*Identity)),
	}

	b.unsubscribe = provider.OnAuthStateChange(func(event identity.Event, _ *identity.Session) {
		b.logger.WithField("event", event).Debug("auth state changed")
		go b.Resync(context.Background())
	})

	return b
}

// Close unsubscribes the bridge from provider notifications.
func (b *Bridge) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Resync queries the provider for the current session and reconciles the
// in-memory Identity against the backend's /auth/me. Safe to call
// concurrently; a generation counter guarantees the newest call's result
// wins even when completions arrive out of order. The bridge is always
// ready once Resync returns.
func (b *Bridge) Resync(ctx context.Context) {
	b.mu.Lock()
	b.resyncGen++
	gen := b.resyncGen
	b.mu.Unlock()

	session, err := b.provider.Session(ctx)
	if err != nil || session == nil {
		if err != nil {
			b.logger.WithError(err).Error("session lookup failed")
		} else {
			b.logger.Debug("no session found")
		}
		b.finishResync(gen, nil)
		return
	}

	var ident Identity
	headers := map[string]string{"Authorization": "Bearer " + session.AccessToken}
	if err := b.api.Get(ctx, "/auth/me", headers, &ident); err != nil {
		b.logger.WithError(err).Error("auth sync failed")
		b.finishResync(gen, nil)
		return
	}

	b.logger.WithField("user_id", ident.UserID).Debug("user synced")
	b.finishResync(gen, &ident)
}

// finishResync installs the resync result and notifies subscribers. A
// stale generation still marks the bridge ready but must not overwrite a
// newer result.
func (b *Bridge) finishResync(gen uint64, ident *Identity) {
	b.mu.Lock()
	b.ready = true
	if gen != b.resyncGen {
		b.mu.Unlock()
		return
	}
	b.identity = ident
	fns := b.collectListeners()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

// Register creates credentials with the provider, then waits for the
// backend to provision the matching user record.
func (b *Bridge) Register(ctx context.Context, email, password, name string) error {
	if _, err := b.provider.SignUp(ctx, email, password, name); err != nil {
		return err
	}
	b.awaitProvisioning(ctx)
	return nil
}

// SignIn exchanges credentials for a session, then resyncs against the
// backend.
func (b *Bridge) SignIn(ctx context.Context, email, password string) error {
	if _, err := b.provider.SignInWithPassword(ctx, email, password); err != nil {
		return err
	}
	b.awaitProvisioning(ctx)
	return nil
}

// awaitProvisioning polls /auth/me until the backend knows the user or
// the configured deadline passes. This replaces a fixed settle sleep: the
// backend provisions its user record asynchronously after first sign-in,
// and the latency is not specified anywhere.
func (b *Bridge) awaitProvisioning(ctx context.Context) {
	interval := b.cfg.ProvisionInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	timeout := b.cfg.ProvisionTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	deadline := time.Now().Add(timeout)
	for {
		b.Resync(ctx)
		if b.CurrentIdentity() != nil {
			return
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			b.logger.Warn("backend user provisioning did not complete in time")
			return
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
		}
	}
}

// SignInWithProvider returns the federated sign-in URL for a full browser
// navigation. Completion arrives through the provider's auth-state
// notification and the OAuth callback route.
func (b *Bridge) SignInWithProvider(provider, origin string) string {
	return b.provider.OAuthURL(provider, origin)
}

// SignOut signs out with the provider and clears the Identity. Provider
// failures are logged, never surfaced: local state clears regardless.
func (b *Bridge) SignOut(ctx context.Context) {
	if err := b.provider.SignOut(ctx); err != nil {
		b.logger.WithError(err).Error("provider sign-out failed")
	}
	b.clearIdentity()
}

func (b *Bridge) clearIdentity() {
	b.mu.Lock()
	b.ready = true
	b.identity = nil
	fns := b.collectListeners()
	b.mu.Unlock()

	for _, fn := range fns {
		fn(nil)
	}
}

// RequestPasswordReset sends a recovery email with the redirect bound to
// this application's reset-password route.
func (b *Bridge) RequestPasswordReset(ctx context.Context, email, origin string) error {
	return b.provider.SendPasswordReset(ctx, email, origin+"/reset-password")
}

// UpdatePassword changes the password on an established recovery session.
func (b *Bridge) UpdatePassword(ctx context.Context, newPassword string) error {
	return b.provider.UpdatePassword(ctx, newPassword)
}

// AuthHeaders returns the bearer header for the current session, or an
// empty map when no session exists. It never fails; unauthenticated calls
// are the backend's to reject.
func (b *Bridge) AuthHeaders(ctx context.Context) map[string]string {
	session, err := b.provider.Session(ctx)
	if err != nil {
		b.logger.WithError(err).Error("get auth headers failed")
		return map[string]string{}
	}
	if session == nil || session.AccessToken == "" {
		return map[string]string{}
	}
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", session.AccessToken),
	}
}

// CurrentIdentity returns a snapshot of the current Identity, or nil.
func (b *Bridge) CurrentIdentity() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.identity == nil {
		return nil
	}
	ident := *b.identity
	return &ident
}

// Ready reports whether the bridge has determined the auth state at
// least once. Dependent views render a neutral loading state until then.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// OnChange registers fn for identity transitions. fn runs synchronously
// with the transition so dependent state (the cart store) can reset
// before any stale read. Returns an unsubscribe function.
func (b *Bridge) OnChange(fn func(*Identity)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// collectListeners must be called with the mutex held.
func (b *Bridge) collectListeners() []func(*Identity) {
	fns := make([]func(*Identity), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	return fns
}

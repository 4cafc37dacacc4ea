// internal/domain/identity/provider.go
package identity

import "context"

// Provider is the identity-provider surface the session bridge consumes.
// Client implements it over HTTP; tests substitute fakes.
type Provider interface {
	// Session returns the current session, or nil when no valid session
	// exists. It never returns an error for the no-session case.
	Session(ctx context.Context) (*Session, error)

	// SignUp creates credentials with the provider. The display name is
	// stored in the provider's user metadata.
	SignUp(ctx context.Context, email, password, name string) (*Session, error)

	// SignInWithPassword exchanges credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// OAuthURL builds the federated sign-in URL for the named provider.
	// Completion is observed via OnAuthStateChange, not a return value.
	OAuthURL(provider, redirectTo string) string

	// AdoptSession installs an access token delivered out of band (the
	// OAuth redirect fragment) as the current session.
	AdoptSession(ctx context.Context, accessToken string) (*Session, error)

	// SignOut revokes the session with the provider. The local session is
	// cleared even when revocation fails.
	SignOut(ctx context.Context) error

	// SendPasswordReset asks the provider to email a recovery link that
	// redirects to redirectTo.
	SendPasswordReset(ctx context.Context, email, redirectTo string) error

	// UpdatePassword changes the password of the current session's user.
	// Requires an established (possibly recovery) session.
	UpdatePassword(ctx context.Context, newPassword string) error

	// VerifyRecovery exchanges a query-format recovery token for a
	// recovery session.
	VerifyRecovery(ctx context.Context, tokenHash string) (*Session, error)

	// OnAuthStateChange registers fn for auth-state events and returns an
	// unsubscribe function.
	OnAuthStateChange(fn func(Event, *Session)) (unsubscribe func())
}

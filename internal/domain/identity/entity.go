// internal/domain/identity/entity.go
package identity

import "time"

// Session is the provider-issued bearer credential for the current
// browser context. The client never persists it; it lives in the
// provider client's memory only.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in,omitempty"`
	ExpiresAt    time.Time    `json:"-"`
	User         *SessionUser `json:"user,omitempty"`
}

// SessionUser is the provider's view of the signed-in user. The backend
// owns the authoritative Identity record; this is only what the provider
// reports alongside a token.
type SessionUser struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// Event identifies an auth-state change emitted by the provider client.
type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
)

// RecoveryTokenKind distinguishes the two transports the provider uses to
// deliver recovery tokens.
type RecoveryTokenKind string

const (
	// RecoveryKindHash is the fragment format: #access_token=...&type=recovery.
	// The token is a ready-to-use access token.
	RecoveryKindHash RecoveryTokenKind = "hash"
	// RecoveryKindQuery is the query format: ?token=...&type=recovery.
	// The token must be verified with the provider before use.
	RecoveryKindQuery RecoveryTokenKind = "query"
)

// RecoveryToken is the normalized form of a password-recovery token,
// regardless of which transport delivered it.
type RecoveryToken struct {
	Kind        RecoveryTokenKind
	AccessToken string // set for RecoveryKindHash
	TokenHash   string // set for RecoveryKindQuery
}

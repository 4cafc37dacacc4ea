// internal/domain/identity/recovery.go
package identity

import (
	"errors"
	"net/url"
)

// ErrNoRecoveryToken is returned when a URL carries no recovery token in
// either supported format.
var ErrNoRecoveryToken = errors.New("no recovery token in URL")

// ParseRecoveryToken normalizes the two transports the provider uses for
// password-recovery links into a single RecoveryToken value:
//
//	fragment: /reset-password#access_token=...&type=recovery
//	query:    /reset-password?token=...&type=recovery
//
// The rest of the recovery flow only ever sees the normalized form.
func ParseRecoveryToken(rawURL string) (*RecoveryToken, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	// Fragment format carries a ready-to-use access token.
	if u.Fragment != "" {
		frag, err := url.ParseQuery(u.Fragment)
		if err == nil && frag.Get("type") == "recovery" && frag.Get("access_token") != "" {
			return &RecoveryToken{
				Kind:        RecoveryKindHash,
				AccessToken: frag.Get("access_token"),
			}, nil
		}
	}

	// Query format carries a token hash that still needs verification.
	q := u.Query()
	if q.Get("type") == "recovery" && q.Get("token") != "" {
		return &RecoveryToken{
			Kind:      RecoveryKindQuery,
			TokenHash: q.Get("token"),
		}, nil
	}

	return nil, ErrNoRecoveryToken
}

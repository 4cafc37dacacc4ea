// internal/domain/identity/client_test.go
package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
)

func testToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Identity.BaseURL = srv.URL
	cfg.Identity.APIKey = "anon-key"
	cfg.Identity.Timeout = 5 * time.Second

	return NewClient(cfg, log)
}

func TestSignInWithPasswordStoresSession(t *testing.T) {
	accessToken := testToken(t, time.Hour)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jo@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": accessToken,
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-1", "email": "jo@example.com"},
		})
	}))

	var events []Event
	client.OnAuthStateChange(func(e Event, _ *Session) {
		events = append(events, e)
	})

	session, err := client.SignInWithPassword(context.Background(), "jo@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, accessToken, session.AccessToken)
	assert.Equal(t, []Event{EventSignedIn}, events)

	cached, err := client.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, accessToken, cached.AccessToken)
}

func TestSignInWithPasswordProviderError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	}))

	_, err := client.SignInWithPassword(context.Background(), "jo@example.com", "wrong")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Invalid login credentials", provErr.Message)
	assert.Equal(t, http.StatusBadRequest, provErr.StatusCode)
}

func TestSessionDropsExpiredToken(t *testing.T) {
	accessToken := testToken(t, -time.Minute)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": accessToken,
			"token_type":   "bearer",
		})
	}))

	_, err := client.SignInWithPassword(context.Background(), "jo@example.com", "pw123456")
	require.NoError(t, err)

	session, err := client.Session(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSignOutClearsSessionEvenOnProviderFailure(t *testing.T) {
	accessToken := testToken(t, time.Hour)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": accessToken, "token_type": "bearer"})
	}))

	_, err := client.SignInWithPassword(context.Background(), "jo@example.com", "pw123456")
	require.NoError(t, err)

	var events []Event
	client.OnAuthStateChange(func(e Event, _ *Session) {
		events = append(events, e)
	})

	err = client.SignOut(context.Background())
	assert.Error(t, err)

	session, serr := client.Session(context.Background())
	require.NoError(t, serr)
	assert.Nil(t, session)
	assert.Equal(t, []Event{EventSignedOut}, events)
}

func TestAdoptSession(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	session, err := client.AdoptSession(context.Background(), testToken(t, time.Hour))
	require.NoError(t, err)
	assert.NotNil(t, session)

	cached, err := client.Session(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cached)
}

func TestAdoptSessionRejectsExpiredToken(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	_, err := client.AdoptSession(context.Background(), testToken(t, -time.Hour))
	require.Error(t, err)

	var provErr *ProviderError
	assert.ErrorAs(t, err, &provErr)
}

func TestVerifyRecoveryEstablishesSession(t *testing.T) {
	accessToken := testToken(t, time.Hour)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "recovery", body["type"])
		require.Equal(t, "token-hash", body["token_hash"])

		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": accessToken, "token_type": "bearer"})
	}))

	var events []Event
	client.OnAuthStateChange(func(e Event, _ *Session) {
		events = append(events, e)
	})

	_, err := client.VerifyRecovery(context.Background(), "token-hash")
	require.NoError(t, err)
	assert.Equal(t, []Event{EventPasswordRecovery}, events)
}

func TestUpdatePasswordRequiresSession(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	err := client.UpdatePassword(context.Background(), "newpassword")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Message, "no active session")
}

func TestOAuthURL(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	u := client.OAuthURL("google", "http://localhost:3000")
	assert.Contains(t, u, "/authorize?")
	assert.Contains(t, u, "provider=google")
	assert.Contains(t, u, "redirect_to=http%3A%2F%2Flocalhost%3A3000")
}

func TestSendPasswordResetCarriesRedirect(t *testing.T) {
	var gotRedirect string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recover", r.URL.Path)
		gotRedirect = r.URL.Query().Get("redirect_to")
		w.WriteHeader(http.StatusOK)
	}))

	err := client.SendPasswordReset(context.Background(), "jo@example.com", "http://localhost:3000/reset-password")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/reset-password", gotRedirect)
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())

	count := 0
	unsubscribe := client.OnAuthStateChange(func(Event, *Session) { count++ })

	_, err := client.AdoptSession(context.Background(), testToken(t, time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	unsubscribe()
	_ = client.SignOut(context.Background())
	assert.Equal(t, 1, count)
}

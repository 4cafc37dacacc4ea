// internal/interfaces/http/middleware/guard_test.go
package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/pkg/metrics"
	"github.com/your-org/storefront/internal/pkg/rest"
)

type fakeProvider struct {
	session *identity.Session
}

func (f *fakeProvider) Session(context.Context) (*identity.Session, error) {
	return f.session, nil
}

func (f *fakeProvider) SignUp(context.Context, string, string, string) (*identity.Session, error) {
	return nil, nil
}

func (f *fakeProvider) SignInWithPassword(context.Context, string, string) (*identity.Session, error) {
	return nil, nil
}

func (f *fakeProvider) OAuthURL(string, string) string { return "" }

func (f *fakeProvider) AdoptSession(context.Context, string) (*identity.Session, error) {
	return nil, nil
}

func (f *fakeProvider) SignOut(context.Context) error { return nil }

func (f *fakeProvider) SendPasswordReset(context.Context, string, string) error { return nil }

func (f *fakeProvider) UpdatePassword(context.Context, string) error { return nil }

func (f *fakeProvider) VerifyRecovery(context.Context, string) (*identity.Session, error) {
	return nil, nil
}

func (f *fakeProvider) OnAuthStateChange(func(identity.Event, *identity.Session)) func() {
	return func() {}
}

// newGuardBridge builds a bridge whose resolved state matches role:
// "" means signed out, otherwise a signed-in user with that role.
func newGuardBridge(t *testing.T, role session.Role, resync bool) *session.Bridge {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(session.Identity{UserID: "user-1", Role: role})
	}))
	t.Cleanup(backend.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	provider := &fakeProvider{}
	if role != "" {
		provider.session = &identity.Session{AccessToken: "test-token"}
	}

	api := rest.NewClient(backend.URL, 5*time.Second, log, metrics.Nop{})
	bridge := session.NewBridge(provider, api, config.SessionConfig{}, log)
	t.Cleanup(bridge.Close)

	if resync {
		bridge.Resync(context.Background())
	}
	return bridge
}

func guardedRouter(bridge *session.Bridge) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/orders", RequireAuth(bridge), func(c *gin.Context) {
		ident := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": ident.UserID})
	})
	router.GET("/admin/stats", RequireAuth(bridge), RequireAdmin(bridge), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRequireAuthWhileLoading(t *testing.T) {
	bridge := newGuardBridge(t, session.RoleCustomer, false)
	router := guardedRouter(bridge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	// Unresolved auth state must not redirect.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "loading", body["status"])
}

func TestRequireAuthRedirectsWithOrigin(t *testing.T) {
	bridge := newGuardBridge(t, "", true)
	router := guardedRouter(bridge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders?page=2", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?from=%2Forders%3Fpage%3D2", w.Header().Get("Location"))
}

func TestRequireAuthPassesIdentity(t *testing.T) {
	bridge := newGuardBridge(t, session.RoleCustomer, true)
	router := guardedRouter(bridge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user_id"])
}

func TestRequireAdminSendsNonAdminsHome(t *testing.T) {
	bridge := newGuardBridge(t, session.RoleCustomer, true)
	router := guardedRouter(bridge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?notice=admin-required", w.Header().Get("Location"))
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	bridge := newGuardBridge(t, session.RoleAdmin, true)
	router := guardedRouter(bridge)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

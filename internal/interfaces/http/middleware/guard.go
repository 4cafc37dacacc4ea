// internal/interfaces/http/middleware/guard.go
package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront/internal/domain/session"
)

// RequireAuth gates identity-requiring views on session bridge state.
// While the bridge has not determined the auth state, it answers with a
// neutral loading payload instead of redirecting, so an unresolved
// session never causes a flash redirect. Once ready, unauthenticated
// requests are sent to sign-in with the original location preserved.
func RequireAuth(bridge *session.Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !bridge.Ready() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusOK, gin.H{"status": "loading"})
			c.Abort()
			return
		}

		ident := bridge.CurrentIdentity()
		if ident == nil {
			from := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/login?from="+from)
			c.Abort()
			return
		}

		c.Set("identity", ident)
		c.Next()
	}
}

// RequireAdmin gates admin-only views. Must run after RequireAuth.
// Authenticated non-admins are sent home with an admin-required notice.
func RequireAdmin(bridge *session.Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := bridge.CurrentIdentity()
		if ident == nil {
			from := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, "/login?from="+from)
			c.Abort()
			return
		}

		if !ident.IsAdmin() {
			c.Redirect(http.StatusSeeOther, "/?notice=admin-required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentIdentity extracts the identity stored by RequireAuth.
func CurrentIdentity(c *gin.Context) *session.Identity {
	if v, ok := c.Get("identity"); ok {
		if ident, ok := v.(*session.Identity); ok {
			return ident
		}
	}
	return nil
}

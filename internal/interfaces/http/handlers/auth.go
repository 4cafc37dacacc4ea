// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/domain/session"
)

// AuthHandler exposes the session bridge over the app shell.
type AuthHandler struct {
	bridge   *session.Bridge
	provider identity.Provider
	logger   *logrus.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(bridge *session.Bridge, provider identity.Provider, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{bridge: bridge, provider: provider, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// Register creates credentials with the provider and waits for backend
// provisioning.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bridge.Register(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		h.logger.WithError(err).Error("register failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": providerMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"identity": h.bridge.CurrentIdentity()})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login signs in with password credentials. A from query parameter set
// by the route guard is echoed back so the caller can return the user to
// the originally requested location.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bridge.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		h.logger.WithError(err).Error("login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": providerMessage(err)})
		return
	}

	redirect := c.Query("from")
	if redirect == "" {
		redirect = "/"
	}
	c.JSON(http.StatusOK, gin.H{
		"identity": h.bridge.CurrentIdentity(),
		"redirect": redirect,
	})
}

// LoginWithProvider starts a redirect-based federated sign-in.
func (h *AuthHandler) LoginWithProvider(c *gin.Context) {
	authorizeURL := h.bridge.SignInWithProvider(c.Param("provider"), requestOrigin(c))
	c.Redirect(http.StatusFound, authorizeURL)
}

type callbackRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// OAuthCallback completes a federated sign-in. The provider delivers the
// token in the redirect's URL fragment, which never reaches the server,
// so the shell posts it back here.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no access token found"})
		return
	}

	if _, err := h.provider.AdoptSession(c.Request.Context(), req.AccessToken); err != nil {
		h.logger.WithError(err).Error("auth callback failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": providerMessage(err)})
		return
	}

	h.bridge.Resync(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"identity": h.bridge.CurrentIdentity(), "redirect": "/"})
}

// Logout signs out. Provider failures are non-fatal; the identity is
// cleared regardless, so this always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.bridge.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword sends a recovery email bound to this application's
// reset-password route.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bridge.RequestPasswordReset(c.Request.Context(), req.Email, requestOrigin(c)); err != nil {
		h.logger.WithError(err).Error("password reset request failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": providerMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

type resetPasswordRequest struct {
	// URL is the full recovery link the user landed on; the token can
	// arrive in its fragment or its query string.
	URL      string `json:"url" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword normalizes the recovery token, establishes a recovery
// session and updates the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := identity.ParseRecoveryToken(req.URL)
	if err != nil {
		if errors.Is(err, identity.ErrNoRecoveryToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please use the reset link sent to your email"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	switch token.Kind {
	case identity.RecoveryKindHash:
		_, err = h.provider.AdoptSession(ctx, token.AccessToken)
	case identity.RecoveryKindQuery:
		_, err = h.provider.VerifyRecovery(ctx, token.TokenHash)
	}
	if err != nil {
		h.logger.WithError(err).Error("recovery session failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset link"})
		return
	}

	if err := h.bridge.UpdatePassword(ctx, req.Password); err != nil {
		h.logger.WithError(err).Error("password update failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": providerMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully", "redirect": "/login"})
}

// Session reports the bridge state for view bootstrapping.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ready":    h.bridge.Ready(),
		"identity": h.bridge.CurrentIdentity(),
	})
}

// providerMessage surfaces the provider's own message verbatim, falling
// back to the raw error text.
func providerMessage(err error) string {
	var provErr *identity.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Message
	}
	return err.Error()
}

// requestOrigin reconstructs the application origin for redirect
// construction.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

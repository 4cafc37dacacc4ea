// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/interfaces/http/handlers"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
	"github.com/your-org/storefront/internal/pkg/metrics"
)

// Deps bundles everything the app shell serves.
type Deps struct {
	Bridge   *session.Bridge
	Provider identity.Provider
	Store    *cart.Store
	Checkout *checkout.Service
	Catalog  *catalog.Service
	Orders   *order.Service
	Metrics  *metrics.Collector
	Redis    *redis.Client
}

// Server is the storefront app shell: it fronts the client-side state
// layer with HTTP routes mirroring the storefront's views.
type Server struct {
	config     *config.Config
	logger     *logrus.Logger
	deps       Deps
	gin        *gin.Engine
	httpServer *http.Server
}

// NewServer creates an app shell server.
func NewServer(cfg *config.Config, logger *logrus.Logger, deps Deps) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s.gin = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithField("port", s.config.Server.Port).Info("app shell starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down app shell")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))

	if s.config.RateLimitEnabled() && s.deps.Redis != nil {
		s.gin.Use(middleware.RateLimit(s.deps.Redis, s.config.Redis.RateLimitPerMinute))
	}
}

func (s *Server) setupRoutes() {
	authHandler := handlers.NewAuthHandler(s.deps.Bridge, s.deps.Provider, s.logger)
	cartHandler := handlers.NewCartHandler(s.deps.Store)
	checkoutHandler := handlers.NewCheckoutHandler(s.deps.Checkout, s.logger)
	productHandler := handlers.NewProductHandler(s.deps.Catalog)
	orderHandler := handlers.NewOrderHandler(s.deps.Orders)

	s.gin.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": s.config.App.Version,
		})
	})
	if s.deps.Metrics != nil {
		s.gin.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	// Public routes
	s.gin.POST("/register", authHandler.Register)
	s.gin.POST("/login", authHandler.Login)
	s.gin.GET("/login/:provider", authHandler.LoginWithProvider)
	s.gin.POST("/auth/callback", authHandler.OAuthCallback)
	s.gin.POST("/logout", authHandler.Logout)
	s.gin.POST("/forgot-password", authHandler.ForgotPassword)
	s.gin.POST("/reset-password", authHandler.ResetPassword)
	s.gin.GET("/session", authHandler.Session)

	s.gin.GET("/products", productHandler.List)
	s.gin.GET("/products/:id", productHandler.Get)
	s.gin.GET("/categories", productHandler.Categories)
	s.gin.GET("/tracking/:id", orderHandler.Tracking)

	// Identity-gated routes
	authed := s.gin.Group("")
	authed.Use(middleware.RequireAuth(s.deps.Bridge))
	{
		authed.GET("/cart", cartHandler.GetCart)
		authed.POST("/cart/add", cartHandler.AddToCart)
		authed.PUT("/cart/update", cartHandler.UpdateQuantity)
		authed.POST("/cart/:id/move-to-wishlist", cartHandler.MoveToWishlist)
		authed.DELETE("/cart/clear", cartHandler.ClearCart)

		authed.GET("/wishlist", cartHandler.GetWishlist)
		authed.GET("/wishlist/count", cartHandler.WishlistCount)
		authed.GET("/wishlist/check/:id", cartHandler.CheckWishlist)
		authed.POST("/wishlist/add", cartHandler.AddToWishlist)
		authed.DELETE("/wishlist/:id", cartHandler.RemoveFromWishlist)
		authed.POST("/wishlist/:id/move-to-cart", cartHandler.MoveToCart)

		authed.POST("/checkout", checkoutHandler.Submit)
		authed.GET("/order-success", checkoutHandler.OrderSuccess)

		authed.GET("/orders", orderHandler.List)
		authed.GET("/orders/:id", orderHandler.Get)
	}

	// Admin routes
	admin := s.gin.Group("/admin")
	admin.Use(middleware.RequireAuth(s.deps.Bridge), middleware.RequireAdmin(s.deps.Bridge))
	{
		admin.GET("/stats", orderHandler.Stats)
		admin.GET("/orders", orderHandler.ListAll)
		admin.PUT("/orders/:id", orderHandler.UpdateStatus)

		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
	}
}

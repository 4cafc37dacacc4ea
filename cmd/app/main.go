// cmd/app/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/identity"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/session"
	httpiface "github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/logger"
	"github.com/your-org/storefront/internal/pkg/metrics"
	"github.com/your-org/storefront/internal/pkg/rest"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Wire the client-side state layer
	collector := metrics.NewCollector()
	api := rest.NewClient(cfg.APIBaseURL(), cfg.Backend.Timeout, appLogger, collector)
	provider := identity.NewClient(cfg, appLogger)

	bridge := session.NewBridge(provider, api, cfg.Session, appLogger)
	defer bridge.Close()

	store := cart.NewStore(api, bridge, appLogger)
	defer store.Close()

	checkoutSvc := checkout.NewService(api, bridge, store, cfg.Checkout, appLogger)
	catalogSvc := catalog.NewService(api, bridge, appLogger)
	orderSvc := order.NewService(api, bridge, appLogger)

	// Determine the initial auth state before serving
	bridge.Resync(context.Background())

	var redisClient *redis.Client
	if cfg.RateLimitEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	server := httpiface.NewServer(cfg, appLogger, httpiface.Deps{
		Bridge:   bridge,
		Provider: provider,
		Store:    store,
		Checkout: checkoutSvc,
		Catalog:  catalogSvc,
		Orders:   orderSvc,
		Metrics:  collector,
		Redis:    redisClient,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("Server shutdown completed")
}

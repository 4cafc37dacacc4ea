// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront client.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Backend  BackendConfig
	Identity IdentityConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains configuration for the app shell HTTP server
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// BackendConfig points at the backend-of-record REST API
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IdentityConfig points at the identity provider's auth API
type IdentityConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SessionConfig tunes the session bridge's provisioning retry
type SessionConfig struct {
	ProvisionInterval time.Duration
	ProvisionTimeout  time.Duration
}

// CheckoutConfig tunes payment confirmation polling
type CheckoutConfig struct {
	PollInterval time.Duration
	PollAttempts int
}

// RedisConfig contains optional Redis configuration for rate limiting.
// Rate limiting is disabled when Host is empty.
type RedisConfig struct {
	Host               string
	Port               string
	Password           string
	DB                 int
	RateLimitPerMinute int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "3000"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
		},
		Identity: IdentityConfig{
			BaseURL: getEnv("IDENTITY_URL", "http://localhost:9999"),
			APIKey:  getEnv("IDENTITY_API_KEY", ""),
			Timeout: getEnvAsDuration("IDENTITY_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			ProvisionInterval: getEnvAsDuration("SESSION_PROVISION_INTERVAL", 500*time.Millisecond),
			ProvisionTimeout:  getEnvAsDuration("SESSION_PROVISION_TIMEOUT", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			PollInterval: getEnvAsDuration("CHECKOUT_POLL_INTERVAL", 2*time.Second),
			PollAttempts: getEnvAsInt("CHECKOUT_POLL_ATTEMPTS", 5),
		},
		Redis: RedisConfig{
			Host:               getEnv("REDIS_HOST", ""),
			Port:               getEnv("REDIS_PORT", "6379"),
			Password:           getEnv("REDIS_PASSWORD", ""),
			DB:                 getEnvAsInt("REDIS_DB", 0),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL")
	}

	if c.Identity.BaseURL == "" {
		return fmt.Errorf("IDENTITY_URL is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Checkout.PollAttempts < 1 {
		return fmt.Errorf("CHECKOUT_POLL_ATTEMPTS must be at least 1")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// APIBaseURL returns the backend API base path
func (c *Config) APIBaseURL() string {
	return strings.TrimSuffix(c.Backend.BaseURL, "/") + "/api"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// RateLimitEnabled reports whether the app shell should rate limit requests
func (c *Config) RateLimitEnabled() bool {
	return c.Redis.Host != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

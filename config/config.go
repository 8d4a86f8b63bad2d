// Package config handles loading and managing application configuration.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Content app internal API configuration
	Core CoreConfig

	// Payment gateway configuration
	Gateway GatewayConfig

	// Paywall defaults and presentation
	Paywall PaywallConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string
	GinMode string // "debug", "release", or "test"
}

// CoreConfig holds the content app's internal API configuration.
type CoreConfig struct {
	BaseURL string
	APIKey  string
}

// GatewayConfig holds hosted checkout gateway configuration. RetryCount and
// Timeout are pass-through widget settings, not business logic.
type GatewayConfig struct {
	KeyID       string
	KeySecret   string
	ThemeColor  string
	RetryCount  int
	Timeout     time.Duration
	ExpiryGrace time.Duration
}

// PaywallConfig holds the paywall defaults used when the content app cannot
// supply settings, plus presentation values for the widget.
type PaywallConfig struct {
	DefaultBasePrice float64
	Currency         string
	DisplayName      string
	AccessDuration   string
}

// Load reads configuration from environment variables.
// Returns a Config struct with all settings populated.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Core: CoreConfig{
			BaseURL: getEnv("CONTENT_CORE_URL", "http://localhost:8000"),
			APIKey:  getEnv("CONTENT_CORE_API_KEY", ""),
		},
		Gateway: GatewayConfig{
			KeyID:       getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:   getEnv("RAZORPAY_KEY_SECRET", ""),
			ThemeColor:  getEnv("CHECKOUT_THEME_COLOR", "#1a56db"),
			RetryCount:  getEnvInt("CHECKOUT_RETRY_COUNT", 2),
			Timeout:     getEnvDuration("CHECKOUT_TIMEOUT", 5*time.Minute),
			ExpiryGrace: getEnvDuration("CHECKOUT_EXPIRY_GRACE", time.Minute),
		},
		Paywall: PaywallConfig{
			DefaultBasePrice: getEnvFloat("PAYWALL_DEFAULT_PRICE", 49),
			Currency:         getEnv("PAYWALL_CURRENCY", "INR"),
			DisplayName:      getEnv("PAYWALL_DISPLAY_NAME", "ArticlePass"),
			AccessDuration:   getEnv("PAYWALL_ACCESS_DURATION", "24h"),
		},
	}
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer with a fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float with a fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as a duration with a fallback.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// PaymentMode selects which payment UX variant the storefront serves.
type PaymentMode string

const (
	// PaymentModeRedirect sends buyers through a gateway-hosted checkout session.
	PaymentModeRedirect PaymentMode = "redirect"
	// PaymentModeClientSecret confirms payment intents client-side.
	PaymentModeClientSecret PaymentMode = "client_secret"
)

// Config holds application configuration loaded from the environment.
// Gateway credentials live here and are injected where needed; there is no
// package-level API key.
type Config struct {
	AppEnv               string
	Port                 string
	DatabaseURL          string
	RedisURL             string
	StripeSecretKey      string
	StripePublishableKey string
	StripeAPIBaseURL     string
	GatewayTimeout       time.Duration
	PaymentMode          PaymentMode
	TaxJurisdiction      string
	DefaultCurrency      string
	CORSAllowedOrigins   []string
	CatalogCacheTTL      time.Duration
	CheckoutRateWindow   time.Duration
	CheckoutRateMax      int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	mode, err := parsePaymentMode(k.String("PAYMENT_MODE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:               valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                 valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:          k.String("DATABASE_URL"),
		RedisURL:             k.String("REDIS_URL"),
		StripeSecretKey:      k.String("STRIPE_SECRET_KEY"),
		StripePublishableKey: k.String("STRIPE_PUBLISHABLE_KEY"),
		StripeAPIBaseURL:     valueOrDefault(k.String("STRIPE_API_BASE_URL"), "https://api.stripe.com"),
		GatewayTimeout:       parseDuration(k.String("GATEWAY_TIMEOUT"), "10s"),
		PaymentMode:          mode,
		TaxJurisdiction:      valueOrDefault(k.String("TAX_JURISDICTION"), "Sales Tax"),
		DefaultCurrency:      strings.ToLower(valueOrDefault(k.String("DEFAULT_CURRENCY"), "usd")),
		CORSAllowedOrigins:   splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CatalogCacheTTL:      parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		CheckoutRateWindow:   parseDuration(k.String("CHECKOUT_RATE_WINDOW"), "1m"),
		CheckoutRateMax:      parseInt(k.String("CHECKOUT_RATE_MAX"), 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func parsePaymentMode(value string) (PaymentMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "redirect", "checkout", "session":
		return PaymentModeRedirect, nil
	case "client_secret", "intent", "payment_intent":
		return PaymentModeClientSecret, nil
	default:
		return "", fmt.Errorf("unsupported PAYMENT_MODE: %s", value)
	}
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(trimmed, "%d", &parsed); err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(envVars map[string]string) (*Config, error) {
	original := make(map[string]string, len(envVars))
	for key := range envVars {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, envVars[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}

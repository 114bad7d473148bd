package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simple-shop/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost/shop",
		"STRIPE_SECRET_KEY": "sk_test_123",
		"PAYMENT_MODE":      "",
		"PORT":              "",
		"GATEWAY_TIMEOUT":   "",
	})
	require.NoError(t, err)
	require.Equal(t, config.PaymentModeRedirect, cfg.PaymentMode)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "usd", cfg.DefaultCurrency)
	require.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	require.Equal(t, "https://api.stripe.com", cfg.StripeAPIBaseURL)
}

func TestLoadPaymentModes(t *testing.T) {
	base := map[string]string{
		"DATABASE_URL":      "postgres://localhost/shop",
		"STRIPE_SECRET_KEY": "sk_test_123",
	}

	for value, want := range map[string]config.PaymentMode{
		"redirect":       config.PaymentModeRedirect,
		"client_secret":  config.PaymentModeClientSecret,
		"payment_intent": config.PaymentModeClientSecret,
	} {
		envVars := map[string]string{"PAYMENT_MODE": value}
		for k, v := range base {
			envVars[k] = v
		}
		cfg, err := config.LoadForTests(envVars)
		require.NoError(t, err, value)
		require.Equal(t, want, cfg.PaymentMode, value)
	}

	envVars := map[string]string{"PAYMENT_MODE": "carrier-pigeon"}
	for k, v := range base {
		envVars[k] = v
	}
	_, err := config.LoadForTests(envVars)
	require.Error(t, err)
}

func TestLoadRequiredValues(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":      "",
		"STRIPE_SECRET_KEY": "sk_test_123",
	})
	require.Error(t, err)

	_, err = config.LoadForTests(map[string]string{
		"DATABASE_URL":      "postgres://localhost/shop",
		"STRIPE_SECRET_KEY": "",
	})
	require.Error(t, err)
}

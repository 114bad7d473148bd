package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simple-shop/internal/gateway"
)

type capturedRequest struct {
	path string
	auth string
	form url.Values
}

func newStripeServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	server, captured := newStripeServer(t, http.StatusOK, `{"id":"cs_test_123"}`)
	client := gateway.NewStripe("sk_test_abc", server.URL, time.Second)

	session, err := client.CreateCheckoutSession(context.Background(), gateway.CheckoutSessionParams{
		LineItems: []gateway.LineItem{{
			Name:        "Mug",
			Description: "A mug",
			Currency:    "USD",
			UnitAmount:  1999,
			Quantity:    1,
			TaxRateIDs:  []string{"txr_1"},
		}},
		SuccessURL: "https://shop.example/success/",
		CancelURL:  "https://shop.example/cancel/",
		CouponID:   "co_9",
	})
	require.NoError(t, err)
	require.Equal(t, "cs_test_123", session.ID)

	require.Equal(t, "/v1/checkout/sessions", captured.path)
	require.Equal(t, "Bearer sk_test_abc", captured.auth)
	require.Equal(t, "payment", captured.form.Get("mode"))
	require.Equal(t, "card", captured.form.Get("payment_method_types[0]"))
	require.Equal(t, "https://shop.example/success/", captured.form.Get("success_url"))
	require.Equal(t, "usd", captured.form.Get("line_items[0][price_data][currency]"))
	require.Equal(t, "1999", captured.form.Get("line_items[0][price_data][unit_amount]"))
	require.Equal(t, "Mug", captured.form.Get("line_items[0][price_data][product_data][name]"))
	require.Equal(t, "txr_1", captured.form.Get("line_items[0][tax_rates][0]"))
	require.Equal(t, "co_9", captured.form.Get("discounts[0][coupon]"))
}

func TestStripeCreatePaymentIntent(t *testing.T) {
	server, captured := newStripeServer(t, http.StatusOK, `{"id":"pi_1","client_secret":"pi_1_secret_x"}`)
	client := gateway.NewStripe("sk_test_abc", server.URL, time.Second)

	intent, err := client.CreatePaymentIntent(context.Background(), gateway.PaymentIntentParams{
		Amount:   1999,
		Currency: "usd",
		Metadata: map[string]string{"item_id": "7"},
	})
	require.NoError(t, err)
	require.Equal(t, "pi_1_secret_x", intent.ClientSecret)
	require.Equal(t, "/v1/payment_intents", captured.path)
	require.Equal(t, "1999", captured.form.Get("amount"))
	require.Equal(t, "7", captured.form.Get("metadata[item_id]"))
}

func TestStripeCreateTaxRateAndCoupon(t *testing.T) {
	server, captured := newStripeServer(t, http.StatusOK, `{"id":"txr_42"}`)
	client := gateway.NewStripe("sk_test_abc", server.URL, time.Second)

	rate, err := client.CreateTaxRate(context.Background(), gateway.TaxRateParams{
		DisplayName:  "VAT",
		Percentage:   decimal.RequireFromString("23"),
		Jurisdiction: "PL",
	})
	require.NoError(t, err)
	require.Equal(t, "txr_42", rate.ID)
	require.Equal(t, "/v1/tax_rates", captured.path)
	require.Equal(t, "23", captured.form.Get("percentage"))
	require.Equal(t, "false", captured.form.Get("inclusive"))
	require.Equal(t, "PL", captured.form.Get("jurisdiction"))

	server2, captured2 := newStripeServer(t, http.StatusOK, `{"id":"co_42"}`)
	client2 := gateway.NewStripe("sk_test_abc", server2.URL, time.Second)
	coupon, err := client2.CreateCoupon(context.Background(), gateway.CouponParams{
		Name:       "SAVE10",
		PercentOff: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)
	require.Equal(t, "co_42", coupon.ID)
	require.Equal(t, "once", captured2.form.Get("duration"))
	require.Equal(t, "10", captured2.form.Get("percent_off"))
}

func TestStripeSurfacesGatewayError(t *testing.T) {
	server, _ := newStripeServer(t, http.StatusPaymentRequired,
		`{"error":{"message":"Your card was declined.","type":"card_error","code":"card_declined"}}`)
	client := gateway.NewStripe("sk_test_abc", server.URL, time.Second)

	_, err := client.CreatePaymentIntent(context.Background(), gateway.PaymentIntentParams{Amount: 100, Currency: "usd"})
	require.Error(t, err)

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "Your card was declined.", gwErr.Message)
	require.Equal(t, "card_declined", gwErr.Code)
	require.Equal(t, http.StatusPaymentRequired, gwErr.StatusCode)
}

func TestStripeUnparseableErrorBody(t *testing.T) {
	server, _ := newStripeServer(t, http.StatusInternalServerError, `not json`)
	client := gateway.NewStripe("sk_test_abc", server.URL, time.Second)

	_, err := client.CreateCoupon(context.Background(), gateway.CouponParams{PercentOff: decimal.RequireFromString("5")})
	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	require.Contains(t, gwErr.Message, "500")
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// Stripe implements Client against the Stripe HTTP API using form-encoded
// requests. The secret key is injected at construction; there is no ambient
// credential state.
type Stripe struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripe constructs a Stripe gateway client.
func NewStripe(secretKey, baseURL string, timeout time.Duration) *Stripe {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultStripeBaseURL
	}
	return &Stripe{
		secretKey:  secretKey,
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession opens a redirect-based checkout session in payment mode.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	for i, li := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.FormatInt(li.Quantity, 10))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(li.Currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		if li.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", li.Description)
		}
		for j, rate := range li.TaxRateIDs {
			form.Set(fmt.Sprintf("%s[tax_rates][%d]", prefix, j), rate)
		}
	}
	if params.CouponID != "" {
		form.Set("discounts[0][coupon]", params.CouponID)
	}

	var session CheckoutSession
	if err := s.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return CheckoutSession{}, err
	}
	return session, nil
}

// CreatePaymentIntent opens a payment intent for client-side confirmation.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var intent PaymentIntent
	if err := s.post(ctx, "/v1/payment_intents", form, &intent); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

// CreateTaxRate creates a gateway-side tax rate resource.
func (s *Stripe) CreateTaxRate(ctx context.Context, params TaxRateParams) (TaxRate, error) {
	form := url.Values{}
	form.Set("display_name", params.DisplayName)
	form.Set("percentage", params.Percentage.String())
	form.Set("inclusive", strconv.FormatBool(params.Inclusive))
	if params.Jurisdiction != "" {
		form.Set("jurisdiction", params.Jurisdiction)
	}

	var rate TaxRate
	if err := s.post(ctx, "/v1/tax_rates", form, &rate); err != nil {
		return TaxRate{}, err
	}
	return rate, nil
}

// CreateCoupon creates a gateway-side percentage coupon.
func (s *Stripe) CreateCoupon(ctx context.Context, params CouponParams) (Coupon, error) {
	form := url.Values{}
	form.Set("percent_off", params.PercentOff.String())
	duration := params.Duration
	if duration == "" {
		duration = "once"
	}
	form.Set("duration", duration)
	if params.Name != "" {
		form.Set("name", params.Name)
	}

	var coupon Coupon
	if err := s.post(ctx, "/v1/coupons", form, &coupon); err != nil {
		return Coupon{}, err
	}
	return coupon, nil
}

type stripeErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (s *Stripe) post(ctx context.Context, path string, form url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("read response: %v", err), StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload stripeErrorBody
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
			return &Error{
				Message:    payload.Error.Message,
				Code:       payload.Error.Code,
				StatusCode: resp.StatusCode,
			}
		}
		return &Error{
			Message:    fmt.Sprintf("gateway returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

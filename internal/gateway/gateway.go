// Package gateway exposes the narrow payment-provider surface the storefront
// consumes: checkout sessions, payment intents, tax rates, and coupons.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem describes one purchasable line of a checkout session.
type LineItem struct {
	Name        string
	Description string
	Currency    string
	UnitAmount  int64
	Quantity    int64
	TaxRateIDs  []string
}

// CheckoutSessionParams captures a redirect-based checkout session request.
type CheckoutSessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	CouponID   string
}

// CheckoutSession is the created gateway-side session.
type CheckoutSession struct {
	ID string `json:"id"`
}

// PaymentIntentParams captures a client-confirmed payment intent request.
type PaymentIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// PaymentIntent is the created gateway-side intent.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// TaxRateParams describes a gateway-side tax rate resource.
type TaxRateParams struct {
	DisplayName  string
	Percentage   decimal.Decimal
	Jurisdiction string
	Inclusive    bool
}

// TaxRate is the created gateway-side tax rate.
type TaxRate struct {
	ID string `json:"id"`
}

// CouponParams describes a gateway-side percentage coupon.
type CouponParams struct {
	Name       string
	PercentOff decimal.Decimal
	Duration   string
}

// Coupon is the created gateway-side coupon.
type Coupon struct {
	ID string `json:"id"`
}

// Client abstracts the operations required from the payment gateway. Each
// call is a single synchronous attempt; callers do not retry.
type Client interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, params PaymentIntentParams) (PaymentIntent, error)
	CreateTaxRate(ctx context.Context, params TaxRateParams) (TaxRate, error)
	CreateCoupon(ctx context.Context, params CouponParams) (Coupon, error)
}

// Error is a failure reported by the gateway, carrying its human-readable
// message verbatim.
type Error struct {
	Message    string
	Code       string
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

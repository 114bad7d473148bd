// Package checkout orchestrates pricing and payment-gateway calls for items
// and orders.
package checkout

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/simple-shop/internal/gateway"
	"github.com/noah-isme/simple-shop/internal/obs"
	"github.com/noah-isme/simple-shop/internal/pricing"
	"github.com/noah-isme/simple-shop/internal/store"
)

// Loader is the catalog read surface the orchestrator needs.
type Loader interface {
	GetItem(ctx context.Context, id int64) (store.Item, error)
	GetOrder(ctx context.Context, id int64) (store.Order, error)
}

// Service coordinates catalog reads, pricing, and gateway resource creation.
// Every operation is a one-shot request/response: no retries, no persisted
// session state, no webhook reconciliation.
type Service struct {
	Store           Loader
	Gateway         gateway.Client
	Logger          zerolog.Logger
	TaxJurisdiction string
}

// ItemCheckoutSession creates a redirect checkout session for a single item
// and returns the session identifier.
func (s *Service) ItemCheckoutSession(ctx context.Context, itemID int64, origin string) (string, error) {
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "Checkout.ItemCheckoutSession")
	defer span.End()
	span.SetAttributes(attribute.Int64("item.id", itemID))
	result := "error"
	defer func() { countSession("item", result) }()

	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	session, err := s.createSession(ctx, []gateway.LineItem{itemLine(item)}, "", origin)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	result = "success"
	return session.ID, nil
}

// ItemPaymentIntent creates a payment intent for a single item and returns
// the client secret used to confirm it client-side.
func (s *Service) ItemPaymentIntent(ctx context.Context, itemID int64) (string, error) {
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "Checkout.ItemPaymentIntent")
	defer span.End()
	span.SetAttributes(attribute.Int64("item.id", itemID))
	result := "error"
	defer func() { countIntent("item", result) }()

	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}

	intent, err := s.createIntent(ctx, gateway.PaymentIntentParams{
		Amount:   pricing.MinorUnits(item.Price),
		Currency: item.Currency,
		Metadata: map[string]string{"item_id": strconv.FormatInt(item.ID, 10)},
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	result = "success"
	return intent.ClientSecret, nil
}

// OrderCheckoutSession creates a redirect checkout session for an order. A
// tax rate resource is created and attached to every line when the order has
// a positive tax percentage; a percentage coupon is created and attached when
// it has a positive discount. Resources are always created fresh: repeating
// the call for the same order produces duplicate gateway-side tax rates and
// coupons. All gateway calls run inside this single error boundary, and
// resources created before a later failure are not compensated.
func (s *Service) OrderCheckoutSession(ctx context.Context, orderID int64, origin string) (string, error) {
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "Checkout.OrderCheckoutSession")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))
	result := "error"
	defer func() { countSession("order", result) }()

	order, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if pricing.MixedCurrencies(order.Lines()) {
		s.Logger.Warn().Int64("order_id", order.ID).Msg("order mixes currencies; line items keep their own")
	}

	var taxRateIDs []string
	if order.Tax != nil && order.Tax.Percentage.IsPositive() {
		rate, err := s.createTaxRate(ctx, gateway.TaxRateParams{
			DisplayName:  order.Tax.Name,
			Percentage:   order.Tax.Percentage,
			Jurisdiction: s.TaxJurisdiction,
		})
		if err != nil {
			span.RecordError(err)
			return "", err
		}
		taxRateIDs = []string{rate.ID}
	}

	lines := make([]gateway.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		line := itemLine(item)
		line.TaxRateIDs = taxRateIDs
		lines = append(lines, line)
	}

	couponID := ""
	if order.Discount != nil && order.Discount.Percentage.IsPositive() {
		coupon, err := s.createCoupon(ctx, gateway.CouponParams{
			Name:       order.Discount.Code,
			PercentOff: order.Discount.Percentage,
		})
		if err != nil {
			span.RecordError(err)
			return "", err
		}
		couponID = coupon.ID
	}

	session, err := s.createSession(ctx, lines, couponID, origin)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	result = "success"
	return session.ID, nil
}

// OrderPaymentIntent creates a payment intent covering an order's derived
// total, in the order's currency.
func (s *Service) OrderPaymentIntent(ctx context.Context, orderID int64) (string, error) {
	ctx, span := otel.Tracer("checkout.Service").Start(ctx, "Checkout.OrderPaymentIntent")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", orderID))
	result := "error"
	defer func() { countIntent("order", result) }()

	order, err := s.Store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	breakdown := order.Breakdown()

	intent, err := s.createIntent(ctx, gateway.PaymentIntentParams{
		Amount:   pricing.MinorUnits(breakdown.Total),
		Currency: breakdown.Currency,
		Metadata: map[string]string{"order_id": strconv.FormatInt(order.ID, 10)},
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	result = "success"
	return intent.ClientSecret, nil
}

// NotFound reports whether the error means a missing item or order.
func NotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func (s *Service) createSession(ctx context.Context, lines []gateway.LineItem, couponID, origin string) (gateway.CheckoutSession, error) {
	defer observeGateway("create_checkout_session", time.Now())
	return s.Gateway.CreateCheckoutSession(ctx, gateway.CheckoutSessionParams{
		LineItems:  lines,
		SuccessURL: origin + "/success/",
		CancelURL:  origin + "/cancel/",
		CouponID:   couponID,
	})
}

func (s *Service) createIntent(ctx context.Context, params gateway.PaymentIntentParams) (gateway.PaymentIntent, error) {
	defer observeGateway("create_payment_intent", time.Now())
	return s.Gateway.CreatePaymentIntent(ctx, params)
}

func (s *Service) createTaxRate(ctx context.Context, params gateway.TaxRateParams) (gateway.TaxRate, error) {
	defer observeGateway("create_tax_rate", time.Now())
	return s.Gateway.CreateTaxRate(ctx, params)
}

func (s *Service) createCoupon(ctx context.Context, params gateway.CouponParams) (gateway.Coupon, error) {
	defer observeGateway("create_coupon", time.Now())
	return s.Gateway.CreateCoupon(ctx, params)
}

func itemLine(item store.Item) gateway.LineItem {
	description := ""
	if item.Description != nil {
		description = *item.Description
	}
	return gateway.LineItem{
		Name:        item.Name,
		Description: description,
		Currency:    item.Currency,
		UnitAmount:  pricing.MinorUnits(item.Price),
		Quantity:    1,
	}
}

func countSession(subject, result string) {
	if obs.CheckoutSessionTotal != nil {
		obs.CheckoutSessionTotal.WithLabelValues(subject, result).Inc()
	}
}

func countIntent(subject, result string) {
	if obs.PaymentIntentTotal != nil {
		obs.PaymentIntentTotal.WithLabelValues(subject, result).Inc()
	}
}

func observeGateway(operation string, start time.Time) {
	if obs.GatewayCallDuration != nil {
		obs.GatewayCallDuration.WithLabelValues(operation).Observe(obs.DurationMillis(time.Since(start)))
	}
}

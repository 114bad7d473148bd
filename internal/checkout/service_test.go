package checkout_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simple-shop/internal/checkout"
	"github.com/noah-isme/simple-shop/internal/gateway"
	"github.com/noah-isme/simple-shop/internal/store"
)

type fakeStore struct {
	items  map[int64]store.Item
	orders map[int64]store.Order
}

func (f *fakeStore) GetItem(_ context.Context, id int64) (store.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return store.Item{}, store.ErrNotFound
	}
	return item, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id int64) (store.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return store.Order{}, store.ErrNotFound
	}
	return order, nil
}

type fakeGateway struct {
	sessions   []gateway.CheckoutSessionParams
	intents    []gateway.PaymentIntentParams
	taxRates   []gateway.TaxRateParams
	coupons    []gateway.CouponParams
	sessionErr error
	intentErr  error
	taxRateErr error
	couponErr  error
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, p gateway.CheckoutSessionParams) (gateway.CheckoutSession, error) {
	if f.sessionErr != nil {
		return gateway.CheckoutSession{}, f.sessionErr
	}
	f.sessions = append(f.sessions, p)
	return gateway.CheckoutSession{ID: "cs_test_1"}, nil
}

func (f *fakeGateway) CreatePaymentIntent(_ context.Context, p gateway.PaymentIntentParams) (gateway.PaymentIntent, error) {
	if f.intentErr != nil {
		return gateway.PaymentIntent{}, f.intentErr
	}
	f.intents = append(f.intents, p)
	return gateway.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

func (f *fakeGateway) CreateTaxRate(_ context.Context, p gateway.TaxRateParams) (gateway.TaxRate, error) {
	if f.taxRateErr != nil {
		return gateway.TaxRate{}, f.taxRateErr
	}
	f.taxRates = append(f.taxRates, p)
	return gateway.TaxRate{ID: "txr_1"}, nil
}

func (f *fakeGateway) CreateCoupon(_ context.Context, p gateway.CouponParams) (gateway.Coupon, error) {
	if f.couponErr != nil {
		return gateway.Coupon{}, f.couponErr
	}
	f.coupons = append(f.coupons, p)
	return gateway.Coupon{ID: "co_1"}, nil
}

func dec(value string) decimal.Decimal { return decimal.RequireFromString(value) }

func strPtr(s string) *string { return &s }

func newFixture() (*fakeStore, *fakeGateway, *checkout.Service) {
	st := &fakeStore{
		items: map[int64]store.Item{
			7: {ID: 7, Name: "Mug", Description: strPtr("A mug"), Price: dec("19.99"), Currency: "usd"},
		},
		orders: map[int64]store.Order{
			3: {
				ID: 3,
				Items: []store.Item{
					{ID: 1, Name: "Tee", Price: dec("10.00"), Currency: "usd"},
					{ID: 2, Name: "Cap", Price: dec("20.00"), Currency: "usd"},
				},
				Discount: &store.Discount{ID: 1, Code: "SAVE10", Percentage: dec("10.00")},
				Tax:      &store.Tax{ID: 1, Name: "VAT", Percentage: dec("5.00")},
			},
		},
	}
	gw := &fakeGateway{}
	svc := &checkout.Service{
		Store:           st,
		Gateway:         gw,
		Logger:          zerolog.Nop(),
		TaxJurisdiction: "PL",
	}
	return st, gw, svc
}

func TestItemCheckoutSession(t *testing.T) {
	_, gw, svc := newFixture()

	sessionID, err := svc.ItemCheckoutSession(context.Background(), 7, "https://shop.example")
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sessionID)

	require.Len(t, gw.sessions, 1)
	params := gw.sessions[0]
	require.Equal(t, "https://shop.example/success/", params.SuccessURL)
	require.Equal(t, "https://shop.example/cancel/", params.CancelURL)
	require.Empty(t, params.CouponID)
	require.Len(t, params.LineItems, 1)
	require.Equal(t, int64(1999), params.LineItems[0].UnitAmount)
	require.Equal(t, int64(1), params.LineItems[0].Quantity)
	require.Equal(t, "usd", params.LineItems[0].Currency)
	require.Equal(t, "Mug", params.LineItems[0].Name)
	require.Equal(t, "A mug", params.LineItems[0].Description)
}

func TestItemPaymentIntentAmountAndMetadata(t *testing.T) {
	_, gw, svc := newFixture()

	secret, err := svc.ItemPaymentIntent(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "pi_1_secret", secret)

	require.Len(t, gw.intents, 1)
	require.Equal(t, int64(1999), gw.intents[0].Amount)
	require.Equal(t, "usd", gw.intents[0].Currency)
	require.Equal(t, map[string]string{"item_id": "7"}, gw.intents[0].Metadata)
}

func TestMissingItemShortCircuitsGateway(t *testing.T) {
	_, gw, svc := newFixture()

	_, err := svc.ItemCheckoutSession(context.Background(), 999, "https://shop.example")
	require.True(t, checkout.NotFound(err))
	_, err = svc.ItemPaymentIntent(context.Background(), 999)
	require.True(t, checkout.NotFound(err))

	require.Empty(t, gw.sessions)
	require.Empty(t, gw.intents)
}

func TestOrderCheckoutSessionAttachesTaxAndCoupon(t *testing.T) {
	_, gw, svc := newFixture()

	sessionID, err := svc.OrderCheckoutSession(context.Background(), 3, "https://shop.example")
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sessionID)

	require.Len(t, gw.taxRates, 1)
	require.Equal(t, "VAT", gw.taxRates[0].DisplayName)
	require.Equal(t, "PL", gw.taxRates[0].Jurisdiction)
	require.True(t, gw.taxRates[0].Percentage.Equal(dec("5.00")))

	require.Len(t, gw.coupons, 1)
	require.Equal(t, "SAVE10", gw.coupons[0].Name)
	require.True(t, gw.coupons[0].PercentOff.Equal(dec("10.00")))

	require.Len(t, gw.sessions, 1)
	params := gw.sessions[0]
	require.Equal(t, "co_1", params.CouponID)
	require.Len(t, params.LineItems, 2)
	for _, line := range params.LineItems {
		require.Equal(t, []string{"txr_1"}, line.TaxRateIDs)
	}
	require.Equal(t, int64(1000), params.LineItems[0].UnitAmount)
	require.Equal(t, int64(2000), params.LineItems[1].UnitAmount)
}

func TestOrderCheckoutSessionSkipsZeroPercentages(t *testing.T) {
	st, gw, svc := newFixture()
	order := st.orders[3]
	order.Discount = &store.Discount{ID: 2, Code: "NOOP", Percentage: decimal.Zero}
	order.Tax = nil
	st.orders[3] = order

	_, err := svc.OrderCheckoutSession(context.Background(), 3, "https://shop.example")
	require.NoError(t, err)
	require.Empty(t, gw.taxRates)
	require.Empty(t, gw.coupons)
	require.Len(t, gw.sessions, 1)
	require.Empty(t, gw.sessions[0].CouponID)
	require.Empty(t, gw.sessions[0].LineItems[0].TaxRateIDs)
}

func TestOrderCheckoutSessionGatewayFailureSurfacesError(t *testing.T) {
	_, gw, svc := newFixture()
	gw.sessionErr = &gateway.Error{Message: "Invalid currency: xyz", StatusCode: 400}

	_, err := svc.OrderCheckoutSession(context.Background(), 3, "https://shop.example")
	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "Invalid currency: xyz", gwErr.Message)

	// tax rate and coupon were already created; orphans are tolerated, not
	// compensated.
	require.Len(t, gw.taxRates, 1)
	require.Len(t, gw.coupons, 1)
}

// Repeated checkout of the same order creates fresh gateway-side tax rates
// and coupons every time. This pins the known limitation: the operation is
// not idempotent.
func TestOrderCheckoutSessionIsNotIdempotent(t *testing.T) {
	_, gw, svc := newFixture()

	_, err := svc.OrderCheckoutSession(context.Background(), 3, "https://shop.example")
	require.NoError(t, err)
	_, err = svc.OrderCheckoutSession(context.Background(), 3, "https://shop.example")
	require.NoError(t, err)

	require.Len(t, gw.taxRates, 2)
	require.Len(t, gw.coupons, 2)
	require.Len(t, gw.sessions, 2)
}

func TestOrderPaymentIntentUsesDerivedTotal(t *testing.T) {
	_, gw, svc := newFixture()

	secret, err := svc.OrderPaymentIntent(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "pi_1_secret", secret)

	// subtotal 30.00, discount 3.00, tax on 27.00 at 5% = 1.35, total 28.35
	require.Len(t, gw.intents, 1)
	require.Equal(t, int64(2835), gw.intents[0].Amount)
	require.Equal(t, "usd", gw.intents[0].Currency)
	require.Equal(t, map[string]string{"order_id": "3"}, gw.intents[0].Metadata)
}

func TestOrderPaymentIntentEmptyOrder(t *testing.T) {
	st, gw, svc := newFixture()
	st.orders[4] = store.Order{ID: 4}

	_, err := svc.OrderPaymentIntent(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(0), gw.intents[0].Amount)
	require.Equal(t, "usd", gw.intents[0].Currency)
}

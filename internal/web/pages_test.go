package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/simple-shop/internal/config"
	"github.com/noah-isme/simple-shop/internal/store"
	"github.com/noah-isme/simple-shop/internal/web"
)

type fakeLoader struct {
	items  map[int64]store.Item
	orders map[int64]store.Order
}

func (f *fakeLoader) GetItem(_ context.Context, id int64) (store.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return store.Item{}, store.ErrNotFound
	}
	return item, nil
}

func (f *fakeLoader) GetOrder(_ context.Context, id int64) (store.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return store.Order{}, store.ErrNotFound
	}
	return order, nil
}

func newPages(t *testing.T) *web.Pages {
	t.Helper()
	loader := &fakeLoader{
		items: map[int64]store.Item{
			7: {ID: 7, Name: "Mug", Price: decimal.RequireFromString("19.99"), Currency: "usd"},
		},
		orders: map[int64]store.Order{
			3: {
				ID: 3,
				Items: []store.Item{
					{ID: 1, Name: "Tee", Price: decimal.RequireFromString("10.00"), Currency: "usd"},
					{ID: 2, Name: "Cap", Price: decimal.RequireFromString("20.00"), Currency: "usd"},
				},
				Discount: &store.Discount{ID: 1, Code: "SAVE10", Percentage: decimal.RequireFromString("10.00")},
				Tax:      &store.Tax{ID: 1, Name: "VAT", Percentage: decimal.RequireFromString("5.00")},
			},
		},
	}
	pages, err := web.NewPages(loader, "pk_test_123", config.PaymentModeRedirect, zerolog.Nop())
	require.NoError(t, err)
	return pages
}

func newRouter(pages *web.Pages) http.Handler {
	r := chi.NewRouter()
	r.Get("/item/{itemID}/", pages.Item)
	r.Get("/order/{orderID}/", pages.Order)
	r.Get("/success/", pages.Success)
	r.Get("/cancel/", pages.Cancel)
	return r
}

func TestItemPage(t *testing.T) {
	router := newRouter(newPages(t))

	req := httptest.NewRequest(http.MethodGet, "/item/7/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Mug")
	require.Contains(t, body, "pk_test_123")
	require.Contains(t, body, "USD")

	req = httptest.NewRequest(http.MethodGet, "/item/999/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderPageShowsDerivedBreakdown(t *testing.T) {
	router := newRouter(newPages(t))

	req := httptest.NewRequest(http.MethodGet, "/order/3/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Order #3")
	require.Contains(t, body, "30")    // subtotal
	require.Contains(t, body, "1.35")  // tax after discount
	require.Contains(t, body, "28.35") // total
	require.Contains(t, body, "SAVE10")
}

func TestConfirmationPages(t *testing.T) {
	router := newRouter(newPages(t))

	req := httptest.NewRequest(http.MethodGet, "/success/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Payment successful!")

	req = httptest.NewRequest(http.MethodGet, "/cancel/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Payment canceled.")
}

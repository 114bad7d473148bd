// Package web renders the thin HTML surface around the checkout API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/simple-shop/internal/config"
	"github.com/noah-isme/simple-shop/internal/pricing"
	"github.com/noah-isme/simple-shop/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Loader is the catalog read surface the pages need.
type Loader interface {
	GetItem(ctx context.Context, id int64) (store.Item, error)
	GetOrder(ctx context.Context, id int64) (store.Order, error)
}

// Pages serves the item/order detail pages and static confirmation pages.
type Pages struct {
	Store          Loader
	PublishableKey string
	PaymentMode    config.PaymentMode
	Logger         zerolog.Logger
	tmpl           *template.Template
}

// NewPages parses the embedded templates.
func NewPages(st Loader, publishableKey string, mode config.PaymentMode, logger zerolog.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{
		Store:          st,
		PublishableKey: publishableKey,
		PaymentMode:    mode,
		Logger:         logger,
		tmpl:           tmpl,
	}, nil
}

type itemPageData struct {
	Item           store.Item
	Currency       string
	PublishableKey string
	PaymentMode    config.PaymentMode
}

// Item handles GET /item/{itemID}/.
func (p *Pages) Item(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := p.Store.GetItem(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	p.render(w, "item.html", itemPageData{
		Item:           item,
		Currency:       strings.ToUpper(item.Currency),
		PublishableKey: p.PublishableKey,
		PaymentMode:    p.PaymentMode,
	})
}

type orderPageData struct {
	Order          store.Order
	Breakdown      pricing.Breakdown
	PublishableKey string
	PaymentMode    config.PaymentMode
}

// Order handles GET /order/{orderID}/. Amounts are derived at render time
// from the order's current item set and links.
func (p *Pages) Order(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	order, err := p.Store.GetOrder(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	p.render(w, "order.html", orderPageData{
		Order:          order,
		Breakdown:      order.Breakdown(),
		PublishableKey: p.PublishableKey,
		PaymentMode:    p.PaymentMode,
	})
}

// Success handles GET /success/.
func (p *Pages) Success(w http.ResponseWriter, _ *http.Request) {
	p.render(w, "success.html", nil)
}

// Cancel handles GET /cancel/.
func (p *Pages) Cancel(w http.ResponseWriter, _ *http.Request) {
	p.render(w, "cancel.html", nil)
}

func (p *Pages) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		p.Logger.Error().Err(err).Str("template", name).Msg("render page")
	}
}

func (p *Pages) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

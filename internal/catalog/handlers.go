// Package catalog exposes read-only JSON endpoints over the item catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/simple-shop/internal/common"
	"github.com/noah-isme/simple-shop/internal/store"
)

// Lister is the catalog read surface the handlers need.
type Lister interface {
	GetItem(ctx context.Context, id int64) (store.Item, error)
	ListItems(ctx context.Context) ([]store.Item, error)
}

// Handler serves the public item API, fronted by a JSON cache.
type Handler struct {
	Store  Lister
	Cache  *Cache
	Logger zerolog.Logger
}

const itemsCacheKey = "catalog:items"

// Items handles GET /api/v1/items.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cached []store.Item
	if hit, err := h.Cache.GetJSON(ctx, itemsCacheKey, &cached); err != nil {
		h.Logger.Warn().Err(err).Msg("catalog cache read failed")
	} else if hit {
		common.JSON(w, http.StatusOK, map[string]any{"data": cached})
		return
	}

	items, err := h.Store.ListItems(ctx)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Cache.SetJSON(ctx, itemsCacheKey, items); err != nil {
		h.Logger.Warn().Err(err).Msg("catalog cache write failed")
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// ItemDetail handles GET /api/v1/items/{itemID}.
func (h *Handler) ItemDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	key := fmt.Sprintf("catalog:item:%d", id)
	var cached store.Item
	if hit, err := h.Cache.GetJSON(ctx, key, &cached); err != nil {
		h.Logger.Warn().Err(err).Msg("catalog cache read failed")
	} else if hit {
		common.JSON(w, http.StatusOK, map[string]any{"data": cached})
		return
	}

	item, err := h.Store.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Cache.SetJSON(ctx, key, item); err != nil {
		h.Logger.Warn().Err(err).Msg("catalog cache write failed")
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

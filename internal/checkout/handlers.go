package checkout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/simple-shop/internal/common"
	"github.com/noah-isme/simple-shop/internal/gateway"
)

// Handler exposes the checkout endpoints. All are GET-only; the router maps
// other methods to 404.
type Handler struct {
	Svc *Service
}

// BuyItem handles GET /buy/{itemID}/ and answers {"id": sessionID}.
func (h *Handler) BuyItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	sessionID, err := h.Svc.ItemCheckoutSession(r.Context(), itemID, common.RequestOrigin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"id": sessionID})
}

// ItemIntent handles GET /item/{itemID}/intent/ and answers {"client_secret": secret}.
func (h *Handler) ItemIntent(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(r, "itemID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	secret, err := h.Svc.ItemPaymentIntent(r.Context(), itemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"client_secret": secret})
}

// OrderSession handles GET /order/{orderID}/create-checkout-session/ and
// answers {"session_id": sessionID}.
func (h *Handler) OrderSession(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	sessionID, err := h.Svc.OrderCheckoutSession(r.Context(), orderID, common.RequestOrigin(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"session_id": sessionID})
}

// OrderIntent handles GET /order/{orderID}/create-payment-intent/ and answers
// {"client_secret": secret}.
func (h *Handler) OrderIntent(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderID")
	if !ok {
		http.NotFound(w, r)
		return
	}
	secret, err := h.Svc.OrderPaymentIntent(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"client_secret": secret})
}

// writeError maps orchestrator failures onto the wire contract: missing
// records are 404, gateway failures are 400 with the provider message
// verbatim, anything else is 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if NotFound(err) {
		http.NotFound(w, r)
		return
	}
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		common.JSONError(w, http.StatusBadRequest, gwErr.Message)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		common.JSONError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "internal error")
}

// pathID parses a numeric path parameter; non-numeric values fall through to
// 404, matching integer-typed route converters.
func pathID(r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

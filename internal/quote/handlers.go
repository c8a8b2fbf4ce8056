package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/pricing-api/internal/common"
	"github.com/noah-isme/pricing-api/internal/promo"
)

// SessionHeader carries the anonymous session identifier on quote requests.
const SessionHeader = "X-Session-Id"

// Handler exposes the storefront pricing endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
}

type linePayload struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type cartPayload struct {
	Items     []linePayload `json:"items" validate:"required,min=1,dive"`
	PromoCode string        `json:"promoCode"`
}

type checkoutPayload struct {
	Items            []linePayload `json:"items" validate:"required,min=1,dive"`
	PromoCode        string        `json:"promoCode"`
	DeliveryOptionID string        `json:"deliveryOptionId" validate:"required"`
}

type promoPayload struct {
	Code string `json:"code" validate:"required"`
}

// CartQuote prices a cart.
func (h *Handler) CartQuote(w http.ResponseWriter, r *http.Request) {
	var payload cartPayload
	if !h.decode(w, r, &payload) {
		return
	}
	q, err := h.Service.CartQuote(r.Context(), sessionID(r), toLines(payload.Items), payload.PromoCode)
	if err != nil {
		h.quoteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// CheckoutQuote prices a checkout against a chosen delivery option.
func (h *Handler) CheckoutQuote(w http.ResponseWriter, r *http.Request) {
	var payload checkoutPayload
	if !h.decode(w, r, &payload) {
		return
	}
	q, err := h.Service.CheckoutQuote(r.Context(), sessionID(r), toLines(payload.Items), payload.PromoCode, payload.DeliveryOptionID)
	if err != nil {
		h.quoteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// ProductPrice returns the effective unit price shown on product pages.
func (h *Handler) ProductPrice(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "product id is required", nil)
		return
	}
	preview, err := h.Service.ProductPreview(id)
	if err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to price product", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": preview})
}

// DeliveryOptions lists the configured delivery options.
func (h *Handler) DeliveryOptions(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Service.Delivery})
}

// ApplyPromo validates a promo code and records it for the session.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var payload promoPayload
	if !h.decode(w, r, &payload) {
		return
	}
	sid := sessionID(r)
	if sid == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session id is required", nil)
		return
	}
	entry, err := h.Service.ApplyPromo(r.Context(), sid, payload.Code)
	if err != nil {
		switch {
		case errors.Is(err, promo.ErrUnknownCode):
			common.JSONError(w, http.StatusNotFound, "UNKNOWN_CODE", "promo code not recognised", nil)
		case errors.Is(err, promo.ErrInactiveCode):
			common.JSONError(w, http.StatusConflict, "INACTIVE_CODE", "promo code is no longer active", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to apply promo code", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": entry})
}

// ClearPromo removes the session's applied promo code.
func (h *Handler) ClearPromo(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session id is required", nil)
		return
	}
	if err := h.Service.ClearPromo(r.Context(), sid); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to clear promo code", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(v); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return false
		}
	}
	return true
}

func (h *Handler) quoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownProduct) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
		return
	}
	common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

func toLines(items []linePayload) []LineInput {
	out := make([]LineInput, len(items))
	for i, it := range items {
		out[i] = LineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

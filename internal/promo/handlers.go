package promo

import (
	"encoding/json"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/common"
	"github.com/noah-isme/pricing-api/internal/discount"
)

// Handler exposes admin management of the promo code catalog.
type Handler struct {
	Catalog  *Catalog
	Validate *validator.Validate
}

type codePayload struct {
	Code   string          `json:"code" validate:"required"`
	Kind   string          `json:"kind" validate:"required,oneof=percentage fixed_amount"`
	Value  decimal.Decimal `json:"value"`
	Active bool            `json:"active"`
}

// List returns the catalog ordered by code.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.List()})
}

// Upsert installs or replaces a promo code.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var payload codePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
	}
	if !payload.Value.IsPositive() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "value must be positive", nil)
		return
	}
	code := Code{
		Code:   strings.ToUpper(strings.TrimSpace(payload.Code)),
		Kind:   discount.Kind(payload.Kind),
		Value:  payload.Value,
		Active: payload.Active,
	}
	h.Catalog.Upsert(code)
	common.JSON(w, http.StatusOK, map[string]any{"data": code})
}

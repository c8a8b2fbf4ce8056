package discount

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/catalog"
	"github.com/noah-isme/pricing-api/internal/common"
)

// ProductSource is the slice of the catalog the preview endpoint needs.
type ProductSource interface {
	Get(id string) (catalog.Product, bool)
}

// Handler exposes administrative rule management endpoints.
type Handler struct {
	Store    *Store
	Products ProductSource
	Validate *validator.Validate
	Now      func() time.Time
}

type rulePayload struct {
	Name        string           `json:"name" validate:"required"`
	Kind        string           `json:"kind" validate:"required,oneof=percentage fixed_amount"`
	Value       decimal.Decimal  `json:"value"`
	Scope       string           `json:"scope" validate:"required,oneof=store_wide categories products"`
	CategoryIDs []string         `json:"categoryIds"`
	ProductIDs  []string         `json:"productIds"`
	StartDate   time.Time        `json:"startDate" validate:"required"`
	EndDate     *time.Time       `json:"endDate"`
	MinPurchase *decimal.Decimal `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount"`
	Status      string           `json:"status" validate:"omitempty,oneof=active inactive"`
}

type previewPayload struct {
	ProductID string      `json:"productId" validate:"required"`
	Rule      rulePayload `json:"rule" validate:"required"`
}

// List returns the full rule catalog with derived status at the current time.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	rules := h.Store.Snapshot()
	type entry struct {
		Rule
		DerivedStatus Status `json:"derivedStatus"`
	}
	out := make([]entry, 0, len(rules))
	for _, rule := range rules {
		out = append(out, entry{Rule: rule, DerivedStatus: rule.DerivedStatus(now)})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Create installs a new rule.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	rule := payload.toRule(uuid.NewString())
	if err := h.Store.Upsert(rule); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_RULE", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": rule})
}

// Update replaces the rule identified by the path id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "id is required", nil)
		return
	}
	if _, err := h.Store.Get(id); err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "rule not found", nil)
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	rule := payload.toRule(id)
	if err := h.Store.Upsert(rule); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_RULE", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rule})
}

// Delete removes a rule.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if err := h.Store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "rule not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to delete rule", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]string{"id": id}})
}

// Preview simulates what a rule definition would save on one product without
// installing it. This backs the admin "what would this rule save" screen.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Products == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "product source not configured", nil)
		return
	}
	var payload previewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	rule := payload.Rule.toRule("preview")
	if err := rule.Validate(); err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_RULE", err.Error(), nil)
		return
	}
	product, ok := h.Products.Get(payload.ProductID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return
	}
	savings := rule.SavingsOn(product.BasePrice)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"productId":      product.ID,
		"basePrice":      product.BasePrice,
		"unitSavings":    savings,
		"finalUnitPrice": product.BasePrice.Sub(savings),
		"derivedStatus":  rule.DerivedStatus(h.now()),
	}})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (rulePayload, bool) {
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return rulePayload{}, false
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return rulePayload{}, false
	}
	return payload, true
}

func (h *Handler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (p rulePayload) toRule(id string) Rule {
	status := Status(p.Status)
	if p.Status == "" {
		status = StatusActive
	}
	return Rule{
		ID:             id,
		Name:           strings.TrimSpace(p.Name),
		Kind:           Kind(p.Kind),
		Value:          p.Value,
		Scope:          ScopeType(p.Scope),
		CategoryIDs:    p.CategoryIDs,
		ProductIDs:     p.ProductIDs,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		MinPurchase:    p.MinPurchase,
		MaxDiscount:    p.MaxDiscount,
		ExplicitStatus: status,
	}
}

// Package discount implements catalog-driven promotional rules: their
// lifecycle status, scope matching and the deterministic resolver that picks
// at most one rule per product.
package discount

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/money"
)

var (
	// ErrInvalidRule is returned when a rule definition fails ingestion checks.
	ErrInvalidRule = errors.New("invalid discount rule")
	// ErrNotFound indicates the requested rule does not exist.
	ErrNotFound = errors.New("discount rule not found")
)

// Kind distinguishes percentage discounts from fixed money amounts.
type Kind string

const (
	KindPercentage  Kind = "percentage"
	KindFixedAmount Kind = "fixed_amount"
)

// ScopeType ranks how targeted a rule is, from a whole store down to an
// explicit product list.
type ScopeType string

const (
	ScopeStoreWide  ScopeType = "store_wide"
	ScopeCategories ScopeType = "categories"
	ScopeProducts   ScopeType = "products"
)

// Status is the lifecycle state of a rule at a given instant.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusScheduled Status = "scheduled"
	StatusExpired   Status = "expired"
)

// Rule is a promotional rule managed by the admin collaborator.
type Rule struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Kind           Kind             `json:"kind"`
	Value          decimal.Decimal  `json:"value"`
	Scope          ScopeType        `json:"scope"`
	CategoryIDs    []string         `json:"categoryIds,omitempty"`
	ProductIDs     []string         `json:"productIds,omitempty"`
	StartDate      time.Time        `json:"startDate"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	MinPurchase    *decimal.Decimal `json:"minPurchase,omitempty"`
	MaxDiscount    *decimal.Decimal `json:"maxDiscount,omitempty"`
	ExplicitStatus Status           `json:"status"`
}

// Validate enforces the ingestion-time invariants. Rules failing these checks
// are rejected before they ever reach resolution.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required: %w", ErrInvalidRule)
	}
	switch r.Kind {
	case KindPercentage:
		if !r.Value.IsPositive() || r.Value.GreaterThan(money.Hundred) {
			return fmt.Errorf("percentage value must be in (0,100]: %w", ErrInvalidRule)
		}
	case KindFixedAmount:
		if !r.Value.IsPositive() {
			return fmt.Errorf("fixed amount must be positive: %w", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("unknown kind %q: %w", r.Kind, ErrInvalidRule)
	}
	switch r.Scope {
	case ScopeStoreWide:
	case ScopeCategories:
		if len(r.CategoryIDs) == 0 {
			return fmt.Errorf("category scope requires categoryIds: %w", ErrInvalidRule)
		}
	case ScopeProducts:
		if len(r.ProductIDs) == 0 {
			return fmt.Errorf("product scope requires productIds: %w", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("unknown scope %q: %w", r.Scope, ErrInvalidRule)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("endDate precedes startDate: %w", ErrInvalidRule)
	}
	if r.MinPurchase != nil && r.MinPurchase.IsNegative() {
		return fmt.Errorf("minPurchase must not be negative: %w", ErrInvalidRule)
	}
	if r.MaxDiscount != nil && !r.MaxDiscount.IsPositive() {
		return fmt.Errorf("maxDiscount must be positive: %w", ErrInvalidRule)
	}
	switch r.ExplicitStatus {
	case StatusActive, StatusInactive:
	default:
		return fmt.Errorf("status must be active or inactive: %w", ErrInvalidRule)
	}
	return nil
}

// DerivedStatus computes the lifecycle state at instant t. An explicit
// Inactive override dominates the date-based derivation.
func (r Rule) DerivedStatus(t time.Time) Status {
	if r.ExplicitStatus == StatusInactive {
		return StatusInactive
	}
	if r.EndDate != nil && t.After(*r.EndDate) {
		return StatusExpired
	}
	if t.Before(r.StartDate) {
		return StatusScheduled
	}
	return StatusActive
}

// SavingsOn computes the per-unit savings this rule would produce on the
// given base price: raw savings, capped by maxDiscount, clamped so the final
// price never goes negative, rounded once at the end.
func (r Rule) SavingsOn(basePrice decimal.Decimal) decimal.Decimal {
	return computeSavings(r.Kind, r.Value, r.MaxDiscount, basePrice)
}

func computeSavings(kind Kind, value decimal.Decimal, limit *decimal.Decimal, basePrice decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch kind {
	case KindPercentage:
		raw = money.Percent(basePrice, value)
	case KindFixedAmount:
		raw = value
	default:
		return money.Zero
	}
	if limit != nil {
		raw = money.Min(raw, *limit)
	}
	raw = money.Min(raw, basePrice)
	return money.Round(money.FloorAtZero(raw))
}

package discount

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/catalog"
)

// Resolved is the outcome of resolution for a single product, carried on a
// line item so pricing can reproduce the savings without the full rule.
type Resolved struct {
	RuleID             string           `json:"ruleId"`
	Kind               Kind             `json:"kind"`
	Value              decimal.Decimal  `json:"value"`
	CappedSavingsLimit *decimal.Decimal `json:"cappedSavingsLimit,omitempty"`
}

// SavingsOn applies the resolved rule to a base price (cap, clamp, round).
func (r Resolved) SavingsOn(basePrice decimal.Decimal) decimal.Decimal {
	return computeSavings(r.Kind, r.Value, r.CappedSavingsLimit, basePrice)
}

// Eval carries the evaluation context for one resolution pass. OrderSubtotal
// is the order's original (pre-discount) subtotal; leave it nil in contexts
// without an order, such as the product detail preview, and rules with a
// minPurchase are treated as applicable.
type Eval struct {
	Now           time.Time
	OrderSubtotal *decimal.Decimal
}

// Resolve selects at most one rule for the product. Eligibility requires a
// derived Active status, a matching scope and, when order context is
// present, a satisfied minPurchase. Precedence between matches is explicit
// and deterministic: Products scope beats Categories beats StoreWide; within
// a tier the rule with the greatest unit saving on the product's base price
// wins; remaining ties go to the lowest rule id. Malformed rules are never
// selected.
func Resolve(p catalog.Product, rules []Rule, at Eval) *Resolved {
	var (
		best     *Rule
		bestTier int
		bestSave decimal.Decimal
	)
	for i := range rules {
		r := rules[i]
		if r.Validate() != nil {
			continue
		}
		if r.DerivedStatus(at.Now) != StatusActive {
			continue
		}
		if !matchesScope(r, p) {
			continue
		}
		if r.MinPurchase != nil && at.OrderSubtotal != nil && at.OrderSubtotal.LessThan(*r.MinPurchase) {
			continue
		}
		tier := specificity(r.Scope)
		save := r.SavingsOn(p.BasePrice)
		if best == nil || betterThan(tier, save, r.ID, bestTier, bestSave, best.ID) {
			best = &rules[i]
			bestTier = tier
			bestSave = save
		}
	}
	if best == nil {
		return nil
	}
	return &Resolved{
		RuleID:             best.ID,
		Kind:               best.Kind,
		Value:              best.Value,
		CappedSavingsLimit: best.MaxDiscount,
	}
}

func matchesScope(r Rule, p catalog.Product) bool {
	switch r.Scope {
	case ScopeStoreWide:
		return true
	case ScopeCategories:
		return contains(r.CategoryIDs, p.CategoryID)
	case ScopeProducts:
		return contains(r.ProductIDs, p.ID)
	}
	return false
}

func specificity(s ScopeType) int {
	switch s {
	case ScopeProducts:
		return 2
	case ScopeCategories:
		return 1
	default:
		return 0
	}
}

func betterThan(tier int, save decimal.Decimal, id string, bestTier int, bestSave decimal.Decimal, bestID string) bool {
	if tier != bestTier {
		return tier > bestTier
	}
	if !save.Equal(bestSave) {
		return save.GreaterThan(bestSave)
	}
	return id < bestID
}

func contains(haystack []string, needle string) bool {
	if needle == "" {
		return false
	}
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

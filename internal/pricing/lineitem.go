// Package pricing turns resolved discounts into line-item prices and
// aggregates priced lines into order totals. Every cart, checkout and order
// tracking render goes through the same computation so independently
// rendered pages always agree on the same numbers.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/discount"
	"github.com/noah-isme/pricing-api/internal/money"
)

var (
	// ErrInvalidQuantity is a caller precondition violation, not a pricing outcome.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice rejects negative base prices at the construction boundary.
	ErrInvalidPrice = errors.New("base price must not be negative")
)

// LineItem is one priced cart line. FinalUnitPrice and UnitSavings are
// always derived from BasePrice and Applied, never stored independently.
type LineItem struct {
	ProductID      string             `json:"productId"`
	BasePrice      decimal.Decimal    `json:"basePrice"`
	Quantity       int                `json:"quantity"`
	Applied        *discount.Resolved `json:"applied,omitempty"`
	FinalUnitPrice decimal.Decimal    `json:"finalUnitPrice"`
	UnitSavings    decimal.Decimal    `json:"unitSavings"`
}

// NewLineItem validates the inputs and derives the per-unit price. Quantity
// multiplication is deliberately left to the aggregator so the unit price
// stays inspectable independent of quantity.
func NewLineItem(productID string, basePrice decimal.Decimal, quantity int, applied *discount.Resolved) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, fmt.Errorf("line %s: %w", productID, ErrInvalidQuantity)
	}
	if basePrice.IsNegative() {
		return LineItem{}, fmt.Errorf("line %s: %w", productID, ErrInvalidPrice)
	}
	finalUnit, savings := PriceUnit(basePrice, applied)
	return LineItem{
		ProductID:      productID,
		BasePrice:      basePrice,
		Quantity:       quantity,
		Applied:        applied,
		FinalUnitPrice: finalUnit,
		UnitSavings:    savings,
	}, nil
}

// PriceUnit applies a resolved discount (or none) to a base price. The
// savings are capped, clamped to the base price and rounded once; the final
// unit price can never go negative.
func PriceUnit(basePrice decimal.Decimal, applied *discount.Resolved) (finalUnit, unitSavings decimal.Decimal) {
	if applied == nil {
		return money.Round(basePrice), money.Zero
	}
	unitSavings = applied.SavingsOn(basePrice)
	finalUnit = money.Round(basePrice.Sub(unitSavings))
	return finalUnit, unitSavings
}

// LineTotal is the quantity-extended final price for one line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.FinalUnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

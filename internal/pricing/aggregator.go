package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/pricing-api/internal/discount"
	"github.com/noah-isme/pricing-api/internal/money"
)

// Promo is a validated promo code ready to apply on top of the discounted
// subtotal. Catalog discounts are applied first, the promo second; the two
// never compound on the same base.
type Promo struct {
	Code  string
	Kind  discount.Kind
	Value decimal.Decimal
}

// Totals is the fully derived order summary. It is recomputed from its
// inputs on every request and never persisted on its own.
type Totals struct {
	OriginalSubtotal    decimal.Decimal `json:"originalSubtotal"`
	DiscountedSubtotal  decimal.Decimal `json:"discountedSubtotal"`
	AutoDiscountSavings decimal.Decimal `json:"autoDiscountSavings"`
	PromoDiscount       decimal.Decimal `json:"promoDiscount"`
	ShippingFee         decimal.Decimal `json:"shippingFee"`
	Tax                 decimal.Decimal `json:"tax"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
	// Clamped reports that pathological discount stacking drove the raw
	// total negative and it was clamped to zero.
	Clamped bool `json:"-"`
}

// Aggregate combines priced line items with an optional promo and a
// caller-supplied shipping fee into order totals. All outputs are rounded to
// two decimals once, here; intermediate sums stay exact.
func Aggregate(items []LineItem, promo *Promo, shippingFee, taxRate decimal.Decimal) Totals {
	original := money.Zero
	discounted := money.Zero
	for _, li := range items {
		qty := decimal.NewFromInt(int64(li.Quantity))
		original = original.Add(li.BasePrice.Mul(qty))
		discounted = discounted.Add(li.FinalUnitPrice.Mul(qty))
	}

	promoDiscount := money.Zero
	if promo != nil {
		switch promo.Kind {
		case discount.KindPercentage:
			promoDiscount = money.Percent(discounted, promo.Value)
		case discount.KindFixedAmount:
			promoDiscount = money.Min(promo.Value, discounted)
		}
		promoDiscount = money.Round(money.FloorAtZero(promoDiscount))
	}

	shipping := money.FloorAtZero(shippingFee)
	taxable := money.FloorAtZero(discounted.Sub(promoDiscount))
	tax := money.Round(taxable.Mul(taxRate))

	original = money.Round(original)
	discounted = money.Round(discounted)

	grand := discounted.Sub(promoDiscount).Add(shipping).Add(tax)
	clamped := false
	if grand.IsNegative() {
		grand = money.Zero
		clamped = true
	}

	return Totals{
		OriginalSubtotal:    original,
		DiscountedSubtotal:  discounted,
		AutoDiscountSavings: original.Sub(discounted),
		PromoDiscount:       promoDiscount,
		ShippingFee:         money.Round(shipping),
		Tax:                 tax,
		GrandTotal:          money.Round(grand),
		Clamped:             clamped,
	}
}

// Package shipping supplies the delivery fee policies the aggregator
// consumes: the cart's binary free-over-threshold policy and checkout's
// enumerated delivery tiers. The fee is a policy output handed to pricing,
// never computed inside it.
package shipping

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnknownOption indicates a delivery option id that is not on the menu.
var ErrUnknownOption = errors.New("unknown delivery option")

// ThresholdPolicy waives the flat fee once the discounted subtotal reaches
// the free-shipping threshold. Used by the cart page.
type ThresholdPolicy struct {
	FreeOver decimal.Decimal
	FlatFee  decimal.Decimal
}

// FeeFor returns the shipping fee for the given discounted subtotal.
func (p ThresholdPolicy) FeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeOver) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Option is one selectable checkout delivery tier.
type Option struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Fee   decimal.Decimal `json:"fee"`
	ETA   string          `json:"eta"`
}

// Options is the menu presented at checkout.
type Options []Option

// DefaultOptions returns the storefront's standard delivery tiers.
func DefaultOptions() Options {
	return Options{
		{ID: "standard", Label: "Standard", Fee: decimal.RequireFromString("5.99"), ETA: "5-7 days"},
		{ID: "express", Label: "Express", Fee: decimal.RequireFromString("12.99"), ETA: "2-3 days"},
		{ID: "overnight", Label: "Overnight", Fee: decimal.RequireFromString("24.99"), ETA: "next day"},
	}
}

// Fee returns the fee for the option with the given id.
func (o Options) Fee(id string) (decimal.Decimal, error) {
	for _, opt := range o {
		if opt.ID == id {
			return opt.Fee, nil
		}
	}
	return decimal.Zero, ErrUnknownOption
}

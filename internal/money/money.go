// Package money holds the decimal helpers shared by the pricing core.
//
// All monetary values flow through shopspring/decimal so cart and checkout
// never disagree over float drift. Rounding to two decimal places happens
// once at the end of a computation, never on intermediate sums.
package money

import "github.com/shopspring/decimal"

var (
	// Zero is the canonical zero amount.
	Zero = decimal.Zero
	// Hundred is the divisor for percentage math.
	Hundred = decimal.NewFromInt(100)
)

// Round normalises an amount to two decimal places, rounding half up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns base * pct / 100 without rounding.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(Hundred)
}

// FloorAtZero clamps negative amounts to zero.
func FloorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// MustParse converts a decimal literal into an amount, panicking on malformed
// input. Intended for constants, seeds and tests.
func MustParse(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

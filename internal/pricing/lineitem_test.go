package pricing

import (
	"errors"
	"testing"

	"github.com/noah-isme/pricing-api/internal/discount"
	"github.com/noah-isme/pricing-api/internal/money"
)

func TestNewLineItemRejectsBadInputs(t *testing.T) {
	if _, err := NewLineItem("p-1", money.MustParse("10"), 0, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewLineItem("p-1", money.MustParse("10"), -1, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewLineItem("p-1", money.MustParse("-1"), 1, nil); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestPriceUnitNoDiscount(t *testing.T) {
	final, savings := PriceUnit(money.MustParse("12.50"), nil)
	if !final.Equal(money.MustParse("12.50")) || !savings.IsZero() {
		t.Fatalf("expected passthrough, got final=%s savings=%s", final, savings)
	}
}

// 20% off a $100 item: $80.00 unit price, $20.00 savings, $160.00 line total
// at quantity 2.
func TestPriceUnitPercentage(t *testing.T) {
	applied := &discount.Resolved{RuleID: "r-1", Kind: discount.KindPercentage, Value: money.MustParse("20")}
	li, err := NewLineItem("p-1", money.MustParse("100"), 2, applied)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !li.FinalUnitPrice.Equal(money.MustParse("80")) {
		t.Fatalf("expected 80.00 unit price, got %s", li.FinalUnitPrice)
	}
	if !li.UnitSavings.Equal(money.MustParse("20")) {
		t.Fatalf("expected 20.00 savings, got %s", li.UnitSavings)
	}
	if !li.LineTotal().Equal(money.MustParse("160")) {
		t.Fatalf("expected 160.00 line total, got %s", li.LineTotal())
	}
}

// $10 fixed discount capped at $5 on a $30 item.
func TestPriceUnitFixedAmountCapped(t *testing.T) {
	limit := money.MustParse("5")
	applied := &discount.Resolved{
		RuleID:             "r-1",
		Kind:               discount.KindFixedAmount,
		Value:              money.MustParse("10"),
		CappedSavingsLimit: &limit,
	}
	final, savings := PriceUnit(money.MustParse("30"), applied)
	if !savings.Equal(money.MustParse("5")) {
		t.Fatalf("expected savings capped at 5.00, got %s", savings)
	}
	if !final.Equal(money.MustParse("25")) {
		t.Fatalf("expected 25.00 final price, got %s", final)
	}
}

func TestPriceUnitNeverNegative(t *testing.T) {
	applied := &discount.Resolved{RuleID: "r-1", Kind: discount.KindFixedAmount, Value: money.MustParse("50")}
	final, savings := PriceUnit(money.MustParse("8"), applied)
	if final.IsNegative() {
		t.Fatalf("final price went negative: %s", final)
	}
	if !savings.Equal(money.MustParse("8")) {
		t.Fatalf("savings should clamp to base price, got %s", savings)
	}
}

// Percentage savings are non-decreasing in the base price; fixed savings are
// constant until the clamp kicks in.
func TestSavingsMonotonicity(t *testing.T) {
	pct := &discount.Resolved{RuleID: "r-1", Kind: discount.KindPercentage, Value: money.MustParse("15")}
	prev := money.Zero
	for _, base := range []string{"1", "10", "99.99", "250", "1000"} {
		_, savings := PriceUnit(money.MustParse(base), pct)
		if savings.LessThan(prev) {
			t.Fatalf("percentage savings decreased at base %s", base)
		}
		prev = savings
	}

	fixed := &discount.Resolved{RuleID: "r-2", Kind: discount.KindFixedAmount, Value: money.MustParse("10")}
	for _, base := range []string{"10", "50", "500"} {
		_, savings := PriceUnit(money.MustParse(base), fixed)
		if !savings.Equal(money.MustParse("10")) {
			t.Fatalf("fixed savings should be constant above the clamp, got %s at base %s", savings, base)
		}
	}
}

package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"2.675", "2.68"},
		{"10", "10"},
		{"0.999", "1"},
	}
	for _, tc := range cases {
		got := Round(decimal.RequireFromString(tc.in))
		if got.String() != tc.want {
			t.Errorf("Round(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(200), decimal.NewFromInt(15))
	if !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected 30, got %s", got)
	}
}

func TestFloorAtZero(t *testing.T) {
	if !FloorAtZero(decimal.NewFromInt(-5)).IsZero() {
		t.Fatal("negative amount should clamp to zero")
	}
	v := decimal.NewFromInt(3)
	if !FloorAtZero(v).Equal(v) {
		t.Fatal("positive amount should pass through")
	}
}

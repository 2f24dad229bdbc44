package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func values(vs ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vs))
	for i, v := range vs {
		out[i] = d(v)
	}
	return out
}

func TestBreakdown_SwapTail(t *testing.T) {
	standard := Breakdown{
		{Name: "A", Value: d("1")},
		{Name: "Swap fees", Value: d("2")},
		{Name: "B", Value: d("3")},
		{Name: "C", Value: d("4")},
	}

	tests := []struct {
		name      string
		breakdown Breakdown
		composite bool
		want      []decimal.Decimal
	}{
		{"non composite slices from swap fees", standard, false, values("2", "3", "4")},
		{"composite takes last two", standard, true, values("3", "4")},
		{"swap fees first", Breakdown{{Name: "Swap fees", Value: d("5")}, {Name: "X", Value: d("1")}}, false, values("5", "1")},
		{"swap fees absent", Breakdown{{Name: "A", Value: d("1")}, {Name: "B", Value: d("2")}}, false, values()},
		{"composite with one entry", Breakdown{{Name: "A", Value: d("7")}}, true, values("7")},
		{"empty", Breakdown{}, false, values()},
		{"empty composite", Breakdown{}, true, values()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.breakdown.SwapTail(tt.composite)
			if got == nil {
				t.Fatal("SwapTail returned nil, want non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SwapTail() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("SwapTail()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

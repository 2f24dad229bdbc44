package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceTable_USD(t *testing.T) {
	table := PriceTable{
		"balancer":     {Slug: "balancer", USD: decimal.RequireFromString("3.5")},
		"aura-finance": {Slug: "aura-finance", USD: decimal.Zero},
	}

	tests := []struct {
		slug string
		want string
		has  bool
	}{
		{"balancer", "3.5", true},
		{"aura-finance", "0", false},
		{"weth", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := table.USD(tt.slug); !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("USD(%q) = %s, want %s", tt.slug, got, tt.want)
			}
			if got := table.Has(tt.slug); got != tt.has {
				t.Errorf("Has(%q) = %v, want %v", tt.slug, got, tt.has)
			}
		})
	}

	slugs := table.Slugs()
	if len(slugs) != 2 || slugs[0] != "aura-finance" {
		t.Errorf("Slugs() = %v", slugs)
	}
}

func TestPriceTable_NilIsEmpty(t *testing.T) {
	var table PriceTable
	if !table.USD("balancer").IsZero() {
		t.Error("nil table should price every slug at zero")
	}
}

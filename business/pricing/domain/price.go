// Package domain contains the core domain types for the pricing context.
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one USD price point.
type Quote struct {
	Slug      string
	USD       decimal.Decimal
	FetchedAt time.Time
}

// PriceTable maps a price-source slug (e.g. "aura-finance") to its quote.
// It is built once per cycle and only read afterwards.
type PriceTable map[string]Quote

// USD returns the price for slug, zero when the slug is absent.
func (t PriceTable) USD(slug string) decimal.Decimal {
	q, ok := t[slug]
	if !ok {
		return decimal.Zero
	}
	return q.USD
}

// Has reports whether slug has a positive price.
func (t PriceTable) Has(slug string) bool {
	return t.USD(slug).IsPositive()
}

// Slugs returns the table keys in sorted order.
func (t PriceTable) Slugs() []string {
	out := make([]string, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

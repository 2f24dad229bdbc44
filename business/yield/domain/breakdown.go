package domain

import "github.com/shopspring/decimal"

// SwapFeesKey names the first swap-derived entry of a non-composite breakdown.
const SwapFeesKey = "Swap fees"

// BreakdownEntry is one named APR contribution.
type BreakdownEntry struct {
	Name  string
	Value decimal.Decimal
}

// Breakdown is a pool's APR breakdown in source document order.
type Breakdown []BreakdownEntry

// SwapTail isolates the swap-fee contributions, dropping the reward entries
// that are computed on-chain instead.
//
// Composite positions keep their last two entries. Every other pool keeps the
// first "Swap fees" entry and everything after it; without that entry the
// tail is empty.
func (b Breakdown) SwapTail(composite bool) []decimal.Decimal {
	if composite {
		start := len(b) - 2
		if start < 0 {
			start = 0
		}
		return b[start:].Values()
	}

	for i, e := range b {
		if e.Name == SwapFeesKey {
			return b[i:].Values()
		}
	}
	return []decimal.Decimal{}
}

// Values returns the entry values in order.
func (b Breakdown) Values() []decimal.Decimal {
	out := make([]decimal.Decimal, len(b))
	for i, e := range b {
		out[i] = e.Value
	}
	return out
}

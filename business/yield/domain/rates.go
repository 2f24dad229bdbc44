// Package domain contains the core domain types for the yield context.
package domain

import (
	"github.com/shopspring/decimal"
)

// SecondsPerYear is a fixed 365-day year; leap years are not adjusted for.
const SecondsPerYear = 86400 * 365

var (
	secondsPerYear = decimal.NewFromInt(SecondsPerYear)
	hundred        = decimal.NewFromInt(100)
)

// Annualize converts a per-second token emission into a yearly USD flow.
func Annualize(perSecondRate, unitPrice decimal.Decimal) decimal.Decimal {
	return perSecondRate.Mul(secondsPerYear).Mul(unitPrice)
}

// YieldPercent expresses a yearly USD flow as a percentage of tvl.
// A zero tvl yields zero so the blended APY stays finite.
func YieldPercent(dollarFlow, tvl decimal.Decimal) decimal.Decimal {
	if tvl.IsZero() {
		return decimal.Zero
	}
	return dollarFlow.Mul(hundred).Div(tvl)
}

// Sum adds values.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Components splits an APY into its sources, all in percent.
type Components struct {
	Base      decimal.Decimal // primary BAL emissions
	Converted decimal.Decimal // AURA minted per BAL
	Extra     decimal.Decimal // secondary reward streams
	Swap      decimal.Decimal // swap fees from the APR cache
}

// Total is the blended APY.
func (c Components) Total() decimal.Decimal {
	return c.Base.Add(c.Converted).Add(c.Extra).Add(c.Swap)
}

// ApyResult is the output of every composer. APY is a percentage, TVL is USD.
type ApyResult struct {
	Pool       string
	Kind       Kind
	APY        decimal.Decimal
	TVL        decimal.Decimal
	Components Components
	ComputedAt time.Time
}

// PoolFailure records a pool skipped in a cycle.
type PoolFailure struct {
	Pool  string
	Error string
}

// Cycle is one pass over every configured pool.
type Cycle struct {
	Number    uint64
	Block     uint64
	StartedAt time.Time
	Duration  time.Duration
	Results   []ApyResult
	Failures  []PoolFailure
	Alerts    []Alert
}

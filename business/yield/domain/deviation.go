package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DeviationPercent is the change from prev to cur relative to cur, in percent.
// A zero cur yields zero.
func DeviationPercent(prev, cur decimal.Decimal) decimal.Decimal {
	if cur.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(cur).Mul(hundred)
}

// Thresholds configure when a result raises an alert. Zero disables a check.
type Thresholds struct {
	MinAPY           decimal.Decimal
	DeviationPercent decimal.Decimal
}

// AlertReason says which threshold fired.
type AlertReason string

const (
	ReasonLowAPY    AlertReason = "low_apy"
	ReasonDeviation AlertReason = "deviation"
)

// Alert is raised for a pool whose APY fell below the floor or moved too far
// since the previous cycle.
type Alert struct {
	Pool      string
	Reason    AlertReason
	APY       decimal.Decimal
	Previous  decimal.Decimal
	Deviation decimal.Decimal
}

// Message renders the alert as one line of chat text.
func (a Alert) Message() string {
	switch a.Reason {
	case ReasonLowAPY:
		return fmt.Sprintf("%s: APY %s%% is below the floor", a.Pool, a.APY.StringFixed(2))
	default:
		return fmt.Sprintf("%s: APY moved %s%% (%s%% -> %s%%)",
			a.Pool, a.Deviation.StringFixed(2), a.Previous.StringFixed(2), a.APY.StringFixed(2))
	}
}

// Evaluate returns the alerts cur raises. prev is nil on a pool's first cycle.
func (t Thresholds) Evaluate(prev *ApyResult, cur ApyResult) []Alert {
	var alerts []Alert

	if t.MinAPY.IsPositive() && cur.APY.LessThan(t.MinAPY) {
		alerts = append(alerts, Alert{Pool: cur.Pool, Reason: ReasonLowAPY, APY: cur.APY})
	}

	if prev != nil && t.DeviationPercent.IsPositive() {
		dev := DeviationPercent(prev.APY, cur.APY)
		if dev.Abs().GreaterThanOrEqual(t.DeviationPercent) {
			alerts = append(alerts, Alert{
				Pool:      cur.Pool,
				Reason:    ReasonDeviation,
				APY:       cur.APY,
				Previous:  prev.APY,
				Deviation: dev,
			})
		}
	}

	return alerts
}

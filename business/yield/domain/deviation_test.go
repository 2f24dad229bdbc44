package domain

import (
	"strings"
	"testing"
)

func TestDeviationPercent(t *testing.T) {
	tests := []struct {
		name string
		prev string
		cur  string
		want string
	}{
		{"rise", "10", "20", "50"},
		{"fall", "20", "10", "-100"},
		{"flat", "12", "12", "0"},
		{"zero current", "12", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeviationPercent(d(tt.prev), d(tt.cur)); !got.Equal(d(tt.want)) {
				t.Errorf("DeviationPercent(%s, %s) = %s, want %s", tt.prev, tt.cur, got, tt.want)
			}
		})
	}
}

func TestThresholds_Evaluate(t *testing.T) {
	th := Thresholds{MinAPY: d("5"), DeviationPercent: d("25")}
	prev := &ApyResult{Pool: "p", APY: d("10")}

	tests := []struct {
		name    string
		prev    *ApyResult
		cur     string
		reasons []AlertReason
	}{
		{"first cycle healthy", nil, "10", nil},
		{"first cycle low", nil, "4", []AlertReason{ReasonLowAPY}},
		{"small move", prev, "11", nil},
		{"large rise", prev, "20", []AlertReason{ReasonDeviation}},
		{"crash", prev, "2", []AlertReason{ReasonLowAPY, ReasonDeviation}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := th.Evaluate(tt.prev, ApyResult{Pool: "p", APY: d(tt.cur)})
			if len(alerts) != len(tt.reasons) {
				t.Fatalf("got %d alerts, want %d: %+v", len(alerts), len(tt.reasons), alerts)
			}
			for i, a := range alerts {
				if a.Reason != tt.reasons[i] {
					t.Errorf("alert[%d].Reason = %s, want %s", i, a.Reason, tt.reasons[i])
				}
				if !strings.HasPrefix(a.Message(), "p:") {
					t.Errorf("Message() = %q", a.Message())
				}
			}
		})
	}
}

func TestThresholds_ZeroDisables(t *testing.T) {
	var th Thresholds
	alerts := th.Evaluate(&ApyResult{APY: d("100")}, ApyResult{APY: d("0")})
	if len(alerts) != 0 {
		t.Errorf("zero thresholds raised %v", alerts)
	}
}

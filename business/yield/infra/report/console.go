// Package report publishes finished yield cycles to the terminal, the log and
// the dashboard.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
)

const rule = "================================================================================"

// ConsoleReporter prints each cycle as a table.
type ConsoleReporter struct {
	out io.Writer
}

var _ app.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a ConsoleReporter writing to out, stdout when nil.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Aura Yield Started")
	fmt.Fprintln(r.out, "==================")
	return nil
}

// Report prints one row per pool with the APY split into its sources.
func (r *ConsoleReporter) Report(ctx context.Context, cycle *domain.Cycle) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "CYCLE #%d  block #%d  %s  (%s)\n",
		cycle.Number, cycle.Block, cycle.StartedAt.UTC().Format(time.RFC3339), cycle.Duration.Round(time.Millisecond))
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "%-24s %-7s %10s %10s %8s %8s %8s %8s\n",
		"POOL", "KIND", "APY %", "TVL $M", "BAL", "AURA", "EXTRA", "SWAP")
	fmt.Fprintln(r.out, strings.Repeat("-", len(rule)))

	for _, res := range cycle.Results {
		c := res.Components
		fmt.Fprintf(r.out, "%-24s %-7s %10s %10s %8s %8s %8s %8s\n",
			truncate(res.Pool, 24),
			res.Kind,
			res.APY.StringFixed(2),
			res.TVL.Shift(-6).StringFixed(2),
			c.Base.StringFixed(2),
			c.Converted.StringFixed(2),
			c.Extra.StringFixed(2),
			c.Swap.StringFixed(2),
		)
	}

	if len(cycle.Failures) > 0 {
		fmt.Fprintln(r.out, strings.Repeat("-", len(rule)))
		fmt.Fprintln(r.out, "SKIPPED")
		for _, f := range cycle.Failures {
			fmt.Fprintf(r.out, "  %s: %s\n", f.Pool, f.Error)
		}
	}

	if len(cycle.Alerts) > 0 {
		fmt.Fprintln(r.out, strings.Repeat("-", len(rule)))
		fmt.Fprintln(r.out, "ALERTS")
		for _, a := range cycle.Alerts {
			fmt.Fprintf(r.out, "  %s\n", a.Message())
		}
	}
	fmt.Fprintln(r.out, rule)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Aura Yield Stopped")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

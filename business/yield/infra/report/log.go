package report

import (
	"context"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/logger"
)

// LogReporter emits one structured record per pool result.
type LogReporter struct {
	logger logger.LoggerInterface
}

var _ app.Reporter = (*LogReporter)(nil)

// NewLogReporter creates a new LogReporter.
func NewLogReporter(log logger.LoggerInterface) *LogReporter {
	return &LogReporter{logger: log}
}

func (r *LogReporter) Start(ctx context.Context) error { return nil }

func (r *LogReporter) Report(ctx context.Context, cycle *domain.Cycle) {
	for _, res := range cycle.Results {
		r.logger.Info(ctx, "pool apy",
			"cycle", cycle.Number,
			"block", cycle.Block,
			"pool", res.Pool,
			"kind", string(res.Kind),
			"apy", res.APY.StringFixed(4),
			"tvl", res.TVL.StringFixed(2),
			"bal", res.Components.Base.StringFixed(4),
			"aura", res.Components.Converted.StringFixed(4),
			"extra", res.Components.Extra.StringFixed(4),
			"swap", res.Components.Swap.StringFixed(4),
		)
	}
	for _, f := range cycle.Failures {
		r.logger.Warn(ctx, "pool apy unavailable", "cycle", cycle.Number, "pool", f.Pool, "error", f.Error)
	}
}

func (r *LogReporter) Stop() error { return nil }

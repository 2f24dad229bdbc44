package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/logger"
)

const meterName = "github.com/fd1az/aura-yield/business/yield/app"

// RunnerConfig controls scheduling and alerting.
type RunnerConfig struct {
	Spec           string
	MaxConcurrency int
	RunOnStart     bool
	Thresholds     domain.Thresholds
}

// Runner recomputes every configured pool on a cron schedule.
type Runner struct {
	cfg      RunnerConfig
	pools    []domain.Pool
	composer PoolComposer
	prices   PriceSource
	blocks   BlockSource
	reporter Reporter
	notifier Notifier
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	metrics  runnerMetrics
	now      func() time.Time

	cron *cron.Cron

	// runMu serializes cycles started by cron and by RunOnce callers.
	runMu sync.Mutex

	mu       sync.Mutex
	cycles   uint64
	previous map[string]domain.ApyResult
	last     *domain.Cycle
}

type runnerMetrics struct {
	apy          metric.Float64Gauge
	tvl          metric.Float64Gauge
	cycleSeconds metric.Float64Histogram
	poolFailures metric.Int64Counter
	alerts       metric.Int64Counter
}

// NewRunner creates a new Runner.
func NewRunner(
	cfg RunnerConfig,
	pools []domain.Pool,
	composer PoolComposer,
	prices PriceSource,
	blocks BlockSource,
	reporter Reporter,
	notifier Notifier,
	log logger.LoggerInterface,
) (*Runner, error) {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}

	r := &Runner{
		cfg:      cfg,
		pools:    pools,
		composer: composer,
		prices:   prices,
		blocks:   blocks,
		reporter: reporter,
		notifier: notifier,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		previous: make(map[string]domain.ApyResult, len(pools)),
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("init runner metrics: %w", err)
	}
	return r, nil
}

func (r *Runner) initMetrics() error {
	meter := otel.Meter(meterName)

	var err error
	r.metrics.apy, err = meter.Float64Gauge(
		"yield_pool_apy_percent",
		metric.WithDescription("Latest blended APY per pool"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return err
	}

	r.metrics.tvl, err = meter.Float64Gauge(
		"yield_pool_tvl_usd",
		metric.WithDescription("Latest TVL per pool"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return err
	}

	r.metrics.cycleSeconds, err = meter.Float64Histogram(
		"yield_cycle_duration_seconds",
		metric.WithDescription("Wall time of one pass over every pool"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	r.metrics.poolFailures, err = meter.Int64Counter(
		"yield_pool_failures_total",
		metric.WithDescription("Pools skipped because a required read failed"),
		metric.WithUnit("{pool}"),
	)
	if err != nil {
		return err
	}

	r.metrics.alerts, err = meter.Int64Counter(
		"yield_alerts_total",
		metric.WithDescription("Alerts raised by threshold checks"),
		metric.WithUnit("{alert}"),
	)
	return err
}

// Pools returns the configured pools.
func (r *Runner) Pools() []domain.Pool {
	return r.pools
}

// Last returns the most recent finished cycle, nil before the first one.
func (r *Runner) Last() *domain.Cycle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Start starts the reporter and the schedule.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.reporter.Start(ctx); err != nil {
		return fmt.Errorf("start reporter: %w", err)
	}

	cl := cronLogger{log: r.logger}
	r.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := r.cron.AddFunc(r.cfg.Spec, func() { r.scheduled(ctx) }); err != nil {
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("scheduler.spec "+r.cfg.Spec),
			apperror.WithCause(err))
	}
	r.cron.Start()

	r.logger.Info(ctx, "yield runner started",
		"schedule", r.cfg.Spec,
		"pools", len(r.pools),
		"max_concurrency", r.cfg.MaxConcurrency,
	)

	if r.cfg.RunOnStart {
		go r.scheduled(ctx)
	}
	return nil
}

// Stop waits for a running cycle and stops the reporter.
func (r *Runner) Stop() error {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	return r.reporter.Stop()
}

func (r *Runner) scheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.Error(ctx, "yield cycle failed", "error", err)
	}
}

// RunOnce computes every pool once, raises alerts and publishes the cycle.
// A pool whose required reads fail is recorded in Cycle.Failures and skipped.
func (r *Runner) RunOnce(ctx context.Context) (*domain.Cycle, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	r.mu.Lock()
	r.cycles++
	number := r.cycles
	r.mu.Unlock()

	ctx, span := r.tracer.Start(ctx, "yield.cycle",
		trace.WithAttributes(attribute.Int64("cycle", int64(number))))
	defer span.End()

	started := r.now()

	table, err := r.prices.Table(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Wrap(err, apperror.CodePriceFetchFailed, "cycle price table")
	}

	cycle := &domain.Cycle{Number: number, StartedAt: started}
	if block, err := r.blocks.LatestBlock(ctx); err != nil {
		r.logger.Warn(ctx, "cycle block unavailable", "cycle", number, "error", err)
	} else {
		cycle.Block = block.Number
	}

	results := make([]*domain.ApyResult, len(r.pools))
	failures := make([]error, len(r.pools))

	var g errgroup.Group
	g.SetLimit(r.cfg.MaxConcurrency)
	for i, pool := range r.pools {
		g.Go(func() error {
			res, err := r.composer.Compose(ctx, pool, table)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i, pool := range r.pools {
		if err := failures[i]; err != nil {
			r.logger.Error(ctx, "pool skipped", "pool", pool.Name, "kind", string(pool.Kind), "error", err)
			r.metrics.poolFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("pool", pool.Name)))
			cycle.Failures = append(cycle.Failures, domain.PoolFailure{Pool: pool.Name, Error: err.Error()})
			continue
		}
		if results[i] == nil {
			continue
		}
		res := *results[i]
		cycle.Results = append(cycle.Results, res)
		r.record(ctx, res)
	}

	cycle.Alerts = r.evaluate(cycle.Results)
	for _, alert := range cycle.Alerts {
		r.metrics.alerts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("pool", alert.Pool),
			attribute.String("reason", string(alert.Reason)),
		))
		if err := r.notifier.Notify(ctx, alert); err != nil {
			r.logger.Error(ctx, "alert delivery failed", "pool", alert.Pool, "error", err)
		}
	}

	cycle.Duration = r.now().Sub(started)
	r.metrics.cycleSeconds.Record(ctx, cycle.Duration.Seconds())

	r.mu.Lock()
	r.last = cycle
	r.mu.Unlock()

	r.logger.Info(ctx, "yield cycle finished",
		"cycle", number,
		"block", cycle.Block,
		"pools", len(cycle.Results),
		"failures", len(cycle.Failures),
		"alerts", len(cycle.Alerts),
		"duration", cycle.Duration.String(),
	)

	r.reporter.Report(ctx, cycle)
	return cycle, nil
}

func (r *Runner) record(ctx context.Context, res domain.ApyResult) {
	attrs := metric.WithAttributes(
		attribute.String("pool", res.Pool),
		attribute.String("kind", string(res.Kind)),
	)
	r.metrics.apy.Record(ctx, res.APY.InexactFloat64(), attrs)
	r.metrics.tvl.Record(ctx, res.TVL.InexactFloat64(), attrs)
}

// evaluate checks results against the previous cycle and remembers them.
func (r *Runner) evaluate(results []domain.ApyResult) []domain.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	var alerts []domain.Alert
	for _, res := range results {
		var prev *domain.ApyResult
		if p, ok := r.previous[res.Pool]; ok {
			prev = &p
		}
		alerts = append(alerts, r.cfg.Thresholds.Evaluate(prev, res)...)
		r.previous[res.Pool] = res
	}
	return alerts
}

// cronLogger routes cron's logr-style calls to the application logger.
type cronLogger struct {
	log logger.LoggerInterface
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}

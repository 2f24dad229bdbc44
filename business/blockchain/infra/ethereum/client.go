// Package ethereum provides the go-ethereum backed chain reader.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/aura-yield/business/blockchain/app"
	"github.com/fd1az/aura-yield/business/blockchain/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/circuitbreaker"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/aura-yield/business/blockchain/infra/ethereum"
	meterName  = "github.com/fd1az/aura-yield/business/blockchain/infra/ethereum"
)

// Backend is the part of ethclient.Client the reader needs.
type Backend interface {
	ethereum.ContractCaller
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// ClientConfig holds configuration for the chain reader.
type ClientConfig struct {
	HTTPURL        string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(httpURL string) ClientConfig {
	return ClientConfig{
		HTTPURL:        httpURL,
		RequestTimeout: 15 * time.Second,
		RateLimitRPS:   10,
		RateLimitBurst: 20,
	}
}

type clientMetrics struct {
	calls        metric.Int64Counter
	callErrors   metric.Int64Counter
	callDuration metric.Float64Histogram
}

// Client implements app.ChainReader.
type Client struct {
	config  ClientConfig
	backend Backend
	logger  logger.LoggerInterface
	limiter *ratelimit.Limiter

	callCB   *circuitbreaker.CircuitBreaker[[]byte]
	headerCB *circuitbreaker.CircuitBreaker[*types.Header]

	stateMu sync.RWMutex
	state   domain.ConnectionState

	tracer  trace.Tracer
	metrics *clientMetrics
}

var _ app.ChainReader = (*Client)(nil)

// NewClient wraps an existing backend.
func NewClient(cfg ClientConfig, backend Backend, log logger.LoggerInterface) (*Client, error) {
	c := &Client{
		config:  cfg,
		backend: backend,
		logger:  log,
		limiter: ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		state:   domain.StateDisconnected,
		tracer:  otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	c.initCircuitBreakers()

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.calls, err = meter.Int64Counter(
		"eth_calls_total",
		metric.WithDescription("Total eth_call and header requests"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	c.metrics.callErrors, err = meter.Int64Counter(
		"eth_call_errors_total",
		metric.WithDescription("Total failed chain reads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.callDuration, err = meter.Float64Histogram(
		"eth_call_duration_ms",
		metric.WithDescription("Chain read latency"),
		metric.WithUnit("ms"),
	)
	return err
}

func (c *Client) initCircuitBreakers() {
	onChange := func(name string, from, to gobreaker.State) {
		c.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
		switch to {
		case gobreaker.StateOpen:
			c.setState(domain.StateDegraded)
		case gobreaker.StateClosed:
			c.setState(domain.StateConnected)
		}
	}

	callCfg := circuitbreaker.DefaultConfig("eth-call")
	callCfg.OnStateChange = onChange
	callCfg.IsSuccessful = isNodeHealthy
	c.callCB = circuitbreaker.New[[]byte](callCfg)

	headerCfg := circuitbreaker.DefaultConfig("eth-header")
	headerCfg.OnStateChange = onChange
	headerCfg.IsSuccessful = isNodeHealthy
	c.headerCB = circuitbreaker.New[*types.Header](headerCfg)
}

// isNodeHealthy reports reverts and caller cancellations as successes: the
// node answered, so they must not trip the breaker.
func isNodeHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}

// CallContract executes a read-only call at blockNumber (nil for latest).
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	method := "unknown"
	if len(msg.Data) >= 4 {
		method = fmt.Sprintf("0x%x", msg.Data[:4])
	}
	to := ""
	if msg.To != nil {
		to = msg.To.Hex()
	}

	ctx, span := c.tracer.Start(ctx, "eth.call",
		trace.WithAttributes(
			attribute.String("to", to),
			attribute.String("selector", method),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("op", "call"))
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter")
		return nil, err
	}

	out, err := c.callCB.Execute(func() ([]byte, error) {
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()
		return c.backend.CallContract(callCtx, msg, blockNumber)
	})

	c.metrics.calls.Add(ctx, 1, attrs)
	c.metrics.callDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "call failed")
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeRPCError, to+" "+method, err)
	}

	c.setState(domain.StateConnected)
	return out, nil
}

// LatestBlock retrieves the most recent block header.
func (c *Client) LatestBlock(ctx context.Context) (*domain.Block, error) {
	ctx, span := c.tracer.Start(ctx, "eth.latestBlock")
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("op", "header"))
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	header, err := c.headerCB.Execute(func() (*types.Header, error) {
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()
		return c.backend.HeaderByNumber(callCtx, nil)
	})

	c.metrics.calls.Add(ctx, 1, attrs)
	c.metrics.callDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "header failed")
		c.setState(domain.StateDisconnected)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeRPCConnectionFailed, "latest header", err)
	}

	c.setState(domain.StateConnected)
	block := &domain.Block{
		Number:    header.Number.Uint64(),
		Hash:      header.Hash(),
		Timestamp: time.Unix(int64(header.Time), 0),
	}
	span.SetAttributes(attribute.Int64("block", int64(block.Number)))
	return block, nil
}

// State returns the current connection state.
func (c *Client) State() domain.ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Client) setState(s domain.ConnectionState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.RequestTimeout)
}

// Package aura reads swap-fee APRs from the Aura cache service.
package aura

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/circuitbreaker"
	"github.com/fd1az/aura-yield/internal/httpclient"
	"github.com/fd1az/aura-yield/internal/logger"
)

const (
	tracerName = "github.com/fd1az/aura-yield/business/yield/infra/aura"

	DefaultBaseURL = "https://cache.aura.finance"
	aprsEndpoint   = "/aura/aprs"

	// The pools list sits at a fixed offset of the response's pools array.
	poolsPath     = "pools.1"
	breakdownPath = "aprs.breakdown"

	httpTimeout = 10 * time.Second
)

// browserHeaders are sent on every request; the cache rejects bare clients.
var browserHeaders = map[string]string{
	"authority":      "https://cache.aura.finance/aura/",
	"content-type":   "application/json",
	"accept":         "*/*",
	"origin":         "https://app.aura.finance/",
	"sec-fetch-site": "same-site",
	"sec-fetch-mode": "cors",
	"sec-fetch-dest": "empty",
	"referer":        "https://app.aura.finance/",
}

// Config holds configuration for the cache client.
type Config struct {
	BaseURL          string
	CompositePoolIDs []string
	Timeout          time.Duration
}

// CacheClient implements app.SwapApySource.
type CacheClient struct {
	client    httpclient.Client
	composite map[string]bool
	logger    logger.LoggerInterface
	tracer    trace.Tracer
	cb        *circuitbreaker.CircuitBreaker[[]byte]
}

var _ app.SwapApySource = (*CacheClient)(nil)

// NewCacheClient creates a new CacheClient.
func NewCacheClient(cfg Config, log logger.LoggerInterface) (*CacheClient, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("aura-cache"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTracer(tracer, false),
		httpclient.WithHeaders(browserHeaders),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	composite := make(map[string]bool, len(cfg.CompositePoolIDs))
	for _, id := range cfg.CompositePoolIDs {
		composite[id] = true
	}

	cbCfg := circuitbreaker.DefaultConfig("aura-cache")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &CacheClient{
		client:    client,
		composite: composite,
		logger:    log,
		tracer:    tracer,
		cb:        circuitbreaker.New[[]byte](cbCfg),
	}, nil
}

// SwapApy returns the swap-fee tail of poolID's APR breakdown. An unknown
// pool yields an empty slice; any fetch or parse failure yields [0].
func (c *CacheClient) SwapApy(ctx context.Context, poolID string) []decimal.Decimal {
	ctx, span := c.tracer.Start(ctx, "aura.swap_apy",
		trace.WithAttributes(attribute.String("pool_id", poolID)),
	)
	defer span.End()

	body, err := c.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn(ctx, "swap apy unavailable", "pool_id", poolID, "error", err)
		return degraded()
	}

	breakdown, found, err := ParseBreakdown(body, poolID)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn(ctx, "swap apy unparseable", "pool_id", poolID, "error", err)
		return degraded()
	}
	if !found {
		c.logger.Debug(ctx, "pool not in apr cache", "pool_id", poolID)
		return []decimal.Decimal{}
	}

	tail := breakdown.SwapTail(c.composite[poolID])
	span.SetAttributes(attribute.Int("entries", len(tail)))
	return tail
}

func (c *CacheClient) fetch(ctx context.Context) ([]byte, error) {
	return c.cb.Execute(func() ([]byte, error) {
		resp, err := c.client.NewRequest(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "aprs")),
			httpclient.WithResponseErrorHandler(statusErrorHandler),
		).Get(ctx, aprsEndpoint)
		if err != nil {
			if apperror.IsAppError(err) {
				return nil, err
			}
			return nil, apperror.External(apperror.CodeAprFetchFailed, aprsEndpoint, err)
		}
		return resp.Body(), nil
	})
}

func statusErrorHandler(statusCode int, body []byte) error {
	if statusCode < http.StatusBadRequest {
		return nil
	}
	return apperror.New(apperror.CodeAprFetchFailed,
		apperror.WithContext(fmt.Sprintf("HTTP %d", statusCode)))
}

func degraded() []decimal.Decimal {
	return []decimal.Decimal{decimal.Zero}
}

// ParseBreakdown finds poolID in an aprs document and returns its breakdown
// in document order. found is false when the document is well formed but
// does not list the pool.
func ParseBreakdown(body []byte, poolID string) (breakdown domain.Breakdown, found bool, err error) {
	if !gjson.ValidBytes(body) {
		return nil, false, apperror.New(apperror.CodeAprFetchFailed, apperror.WithContext("body is not JSON"))
	}

	pools := gjson.GetBytes(body, poolsPath)
	if !pools.IsArray() {
		return nil, false, apperror.New(apperror.CodeAprFetchFailed, apperror.WithContext(poolsPath+" is not an array"))
	}

	var pool gjson.Result
	pools.ForEach(func(_, p gjson.Result) bool {
		if p.Get("id").String() == poolID {
			pool = p
			return false
		}
		return true
	})
	if !pool.Exists() {
		return nil, false, nil
	}

	raw := pool.Get(breakdownPath)
	if !raw.IsObject() {
		return nil, true, apperror.New(apperror.CodeAprFetchFailed,
			apperror.WithContext(poolID+": "+breakdownPath+" is not an object"))
	}

	breakdown = domain.Breakdown{}
	raw.ForEach(func(key, value gjson.Result) bool {
		breakdown = append(breakdown, domain.BreakdownEntry{
			Name:  key.String(),
			Value: numeric(value),
		})
		return true
	})
	return breakdown, true, nil
}

// numeric reads a number or numeric string; anything else counts as zero.
func numeric(v gjson.Result) decimal.Decimal {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = v.Str
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

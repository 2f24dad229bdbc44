// Package coingecko implements the price provider over the CoinGecko simple API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/aura-yield/business/pricing/app"
	"github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/cache"
	"github.com/fd1az/aura-yield/internal/circuitbreaker"
	"github.com/fd1az/aura-yield/internal/httpclient"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/ratelimit"
)

const (
	tracerName = "github.com/fd1az/aura-yield/business/pricing/infra/coingecko"

	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultPlatform = "ethereum"

	simplePriceEndpoint = "/simple/price"
	tokenPriceEndpoint  = "/simple/token_price/"
	vsCurrency          = "usd"

	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 5 * time.Minute
)

// Config holds configuration for the CoinGecko client.
type Config struct {
	BaseURL        string
	APIKey         string
	Platform       string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// simplePrices is the shape of both simple endpoints: id or address -> currency -> price.
type simplePrices map[string]map[string]decimal.Decimal

// Client implements app.PriceProvider.
type Client struct {
	client httpclient.Client
	config Config
	logger logger.LoggerInterface
	tracer trace.Tracer
	cb     *circuitbreaker.CircuitBreaker[simplePrices]
	byAddr *cache.Cache[string, decimal.Decimal]
	now    func() time.Time
}

var _ app.PriceProvider = (*Client)(nil)

// NewClient creates a new CoinGecko client.
func NewClient(cfg Config, log logger.LoggerInterface) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Platform == "" {
		cfg.Platform = DefaultPlatform
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	tracer := otel.Tracer(tracerName)

	headers := map[string]string{"Accept": "application/json"}
	if cfg.APIKey != "" {
		headers[apiKeyHeader(cfg.BaseURL)] = cfg.APIKey
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coingecko"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
		httpclient.WithTracer(tracer, false),
		httpclient.WithHeaders(headers),
		httpclient.WithRateLimiter(ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	cbCfg := circuitbreaker.DefaultConfig("coingecko")
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &Client{
		client: client,
		config: cfg,
		logger: log,
		tracer: tracer,
		cb:     circuitbreaker.New[simplePrices](cbCfg),
		byAddr: cache.New[string, decimal.Decimal](cfg.CacheTTL),
		now:    time.Now,
	}, nil
}

// apiKeyHeader picks the header the pro and demo plans expect.
func apiKeyHeader(baseURL string) string {
	if strings.Contains(baseURL, "pro-api") {
		return "x-cg-pro-api-key"
	}
	return "x-cg-demo-api-key"
}

// PriceTable fetches USD prices for slugs in one request.
func (c *Client) PriceTable(ctx context.Context, slugs []string) (domain.PriceTable, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.price_table",
		trace.WithAttributes(attribute.StringSlice("slugs", slugs)),
	)
	defer span.End()

	table := make(domain.PriceTable, len(slugs))
	if len(slugs) == 0 {
		return table, nil
	}

	prices, err := c.fetch(ctx, simplePriceEndpoint, "simple_price", map[string]string{
		"ids":           strings.Join(slugs, ","),
		"vs_currencies": vsCurrency,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	fetchedAt := c.now()
	for _, slug := range slugs {
		usd, ok := prices[slug][vsCurrency]
		if !ok {
			c.logger.Warn(ctx, "no price for slug", "slug", slug)
			continue
		}
		table[slug] = domain.Quote{Slug: slug, USD: usd, FetchedAt: fetchedAt}
	}

	span.SetAttributes(attribute.Int("priced", len(table)))
	return table, nil
}

// PriceForContract returns the USD price of token on the configured platform.
// Unknown tokens and failures yield zero.
func (c *Client) PriceForContract(ctx context.Context, token common.Address) decimal.Decimal {
	key := strings.ToLower(token.Hex())
	if price, ok := c.byAddr.Get(ctx, key); ok {
		return price
	}

	ctx, span := c.tracer.Start(ctx, "coingecko.token_price",
		trace.WithAttributes(attribute.String("token", key)),
	)
	defer span.End()

	prices, err := c.fetch(ctx, tokenPriceEndpoint+c.config.Platform, "token_price", map[string]string{
		"contract_addresses": key,
		"vs_currencies":      vsCurrency,
	})
	if err != nil {
		span.RecordError(err)
		c.logger.Warn(ctx, "token price lookup failed", "token", key, "error", err)
		return decimal.Zero
	}

	price := decimal.Zero
	for addr, quote := range prices {
		if strings.EqualFold(addr, key) {
			price = quote[vsCurrency]
			break
		}
	}
	if price.IsZero() {
		c.logger.Debug(ctx, "token not priced", "token", key)
	}

	c.byAddr.Set(ctx, key, price, c.config.CacheTTL)
	return price
}

// Close releases the address cache.
func (c *Client) Close() {
	c.byAddr.Close()
}

func (c *Client) fetch(ctx context.Context, endpoint, label string, query map[string]string) (simplePrices, error) {
	return c.cb.Execute(func() (simplePrices, error) {
		var result simplePrices
		req := c.client.NewRequest(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", label)),
			httpclient.WithResponseErrorHandler(coingeckoErrorHandler),
		)
		for k, v := range query {
			req = req.SetQueryParam(k, v)
		}

		resp, err := req.SetResult(&result).Get(ctx, endpoint)
		if err != nil {
			if apperror.IsAppError(err) {
				return nil, err
			}
			return nil, apperror.New(apperror.CodePriceFetchFailed,
				apperror.WithCause(err),
				apperror.WithContext(label))
		}
		if result == nil {
			return nil, apperror.New(apperror.CodePriceFetchFailed,
				apperror.WithContext(fmt.Sprintf("%s: undecodable body %q", label, truncate(resp.String(), 120))))
		}
		return result, nil
	})
}

// APIError is the error envelope CoinGecko returns on 4xx.
type APIError struct {
	Status struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_message"`
	} `json:"status"`
	Error string `json:"error"`
}

func coingeckoErrorHandler(statusCode int, body []byte) error {
	if statusCode < http.StatusBadRequest {
		return nil
	}

	msg := truncate(string(body), 200)
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Status.Message != "":
			msg = apiErr.Status.Message
		case apiErr.Error != "":
			msg = apiErr.Error
		}
	}

	code := apperror.CodePriceFetchFailed
	if statusCode == http.StatusTooManyRequests {
		code = apperror.CodeRateLimitExceeded
	}
	return apperror.New(code, apperror.WithContext(fmt.Sprintf("HTTP %d: %s", statusCode, msg)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

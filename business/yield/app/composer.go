package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pricingDomain "github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/asset"
	"github.com/fd1az/aura-yield/internal/logger"
)

const tracerName = "github.com/fd1az/aura-yield/business/yield/app"

// Composer blends on-chain reward yield, extra rewards and swap fees into
// one APY per pool shape.
type Composer struct {
	contracts ContractFactory
	swap      SwapApySource
	tvl       TVLProvider
	extras    *ExtraRewardEnumerator
	logger    logger.LoggerInterface
	tracer    trace.Tracer
	now       func() time.Time
}

var _ PoolComposer = (*Composer)(nil)

// NewComposer creates a new Composer.
func NewComposer(
	contracts ContractFactory,
	swap SwapApySource,
	tvl TVLProvider,
	prices PriceLookup,
	log logger.LoggerInterface,
) *Composer {
	return &Composer{
		contracts: contracts,
		swap:      swap,
		tvl:       tvl,
		extras:    NewExtraRewardEnumerator(contracts, prices, log),
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// Compose dispatches on pool.Kind and stamps the result with the pool name.
func (c *Composer) Compose(ctx context.Context, pool domain.Pool, prices pricingDomain.PriceTable) (*domain.ApyResult, error) {
	ctx, span := c.tracer.Start(ctx, "yield.compose",
		trace.WithAttributes(
			attribute.String("pool", pool.Name),
			attribute.String("kind", string(pool.Kind)),
		),
	)
	defer span.End()

	var (
		res *domain.ApyResult
		err error
	)
	switch pool.Kind {
	case domain.KindLP:
		res, err = c.ComposeLP(ctx, pool.LPRequest(), prices)
	case domain.KindTokens:
		res, err = c.ComposeTokens(ctx, pool.TokensRequest(), prices)
	case domain.KindStaked:
		res, err = c.ComposeStaked(ctx, pool.StakedRequest(), prices)
	default:
		err = apperror.New(apperror.CodeInvalidPool,
			apperror.WithContext(pool.Name+": unknown kind "+string(pool.Kind)))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		return nil, err
	}

	res.Pool = pool.Name
	if res.TVL.IsZero() {
		c.logger.Warn(ctx, "pool has zero tvl, reward terms contribute nothing", "pool", pool.Name)
	}

	span.SetAttributes(
		attribute.String("apy", res.APY.StringFixed(4)),
		attribute.String("tvl", res.TVL.StringFixed(2)),
	)
	return res, nil
}

// ComposeLP prices a Balancer LP position: BAL and AURA emissions, extra
// reward streams and swap fees.
func (c *Composer) ComposeLP(ctx context.Context, req domain.LPRequest, prices pricingDomain.PriceTable) (*domain.ApyResult, error) {
	swap := c.swap.SwapApy(ctx, req.AuraPoolID)

	dist := c.contracts.Distributor(req.BalReward)
	rateRaw, err := dist.RewardRate(ctx)
	if err != nil {
		return nil, err
	}

	lp := req.Asset
	if lp == (common.Address{}) {
		if lp, err = dist.Asset(ctx); err != nil {
			return nil, err
		}
	}

	tvl, err := c.tvl.SupplyBalTVL(ctx, req.BalReward, lp)
	if err != nil {
		return nil, tvlError(err, req.BalReward)
	}

	base, converted, err := c.rewardYield(ctx, rateRaw, req.AuraReward, tvl, prices)
	if err != nil {
		return nil, err
	}

	comp := domain.Components{
		Base:      base,
		Converted: converted,
		Extra:     c.extras.Sum(ctx, req.BalReward, tvl),
		Swap:      domain.Sum(swap),
	}
	return c.result(domain.KindLP, tvl, comp), nil
}

// ComposeTokens prices a pool valued from its WETH and AURA vault balances.
// It carries BAL and AURA emissions only.
func (c *Composer) ComposeTokens(ctx context.Context, req domain.TokensRequest, prices pricingDomain.PriceTable) (*domain.ApyResult, error) {
	rateRaw, err := c.contracts.Distributor(req.BalReward).RewardRate(ctx)
	if err != nil {
		return nil, err
	}

	tokenPrices := []decimal.Decimal{
		prices.USD(asset.SlugWETH),
		prices.USD(asset.SlugAura),
	}
	tvl, err := c.tvl.TokensBalTVL(ctx, req.Vault, req.BalancerPoolID, tokenPrices)
	if err != nil {
		return nil, tvlError(err, req.BalReward)
	}

	base, converted, err := c.rewardYield(ctx, rateRaw, req.AuraReward, tvl, prices)
	if err != nil {
		return nil, err
	}

	comp := domain.Components{Base: base, Converted: converted}
	return c.result(domain.KindTokens, tvl, comp), nil
}

// ComposeStaked prices a composite staked position at its own token price:
// BAL and AURA emissions plus swap fees.
func (c *Composer) ComposeStaked(ctx context.Context, req domain.StakedRequest, prices pricingDomain.PriceTable) (*domain.ApyResult, error) {
	swap := c.swap.SwapApy(ctx, req.AuraPoolID)

	rateRaw, err := c.contracts.Distributor(req.BalReward).RewardRate(ctx)
	if err != nil {
		return nil, err
	}

	tvl, err := c.tvl.SupplyTVL(ctx, req.BalReward, prices.USD(asset.SlugAuraBal))
	if err != nil {
		return nil, tvlError(err, req.BalReward)
	}

	base, converted, err := c.rewardYield(ctx, rateRaw, req.AuraReward, tvl, prices)
	if err != nil {
		return nil, err
	}

	comp := domain.Components{Base: base, Converted: converted, Swap: domain.Sum(swap)}
	return c.result(domain.KindStaked, tvl, comp), nil
}

// rewardYield returns the BAL yield of rateRaw and the yield of the AURA
// minted for it.
func (c *Composer) rewardYield(
	ctx context.Context,
	rateRaw *big.Int,
	converter common.Address,
	tvl decimal.Decimal,
	prices pricingDomain.PriceTable,
) (base, converted decimal.Decimal, err error) {
	base = domain.YieldPercent(
		domain.Annualize(asset.FromWei(rateRaw), prices.USD(asset.SlugBalancer)),
		tvl,
	)

	auraRaw, err := c.contracts.Converter(converter).ConvertCrvToCvx(ctx, rateRaw)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	converted = domain.YieldPercent(
		domain.Annualize(asset.FromWei(auraRaw), prices.USD(asset.SlugAura)),
		tvl,
	)
	return base, converted, nil
}

func (c *Composer) result(kind domain.Kind, tvl decimal.Decimal, comp domain.Components) *domain.ApyResult {
	return &domain.ApyResult{
		Kind:       kind,
		APY:        comp.Total(),
		TVL:        tvl,
		Components: comp,
		ComputedAt: c.now(),
	}
}

func tvlError(err error, reward common.Address) error {
	return apperror.New(apperror.CodeTVLFailed,
		apperror.WithContext(reward.Hex()),
		apperror.WithCause(err))
}

package balancer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/internal/asset"
	"github.com/fd1az/aura-yield/internal/logger"
)

const tracerName = "github.com/fd1az/aura-yield/business/yield/infra/balancer"

// TVLProvider implements app.TVLProvider on chain reads.
type TVLProvider struct {
	contracts app.ContractFactory
	vault     *vault
	vaultAddr common.Address
	prices    app.PriceLookup
	logger    logger.LoggerInterface
	tracer    trace.Tracer
}

var _ app.TVLProvider = (*TVLProvider)(nil)

// NewTVLProvider creates a TVL provider. vaultAddr serves SupplyBalTVL, whose
// pools all live in the one Balancer vault.
func NewTVLProvider(
	caller ethereum.ContractCaller,
	contracts app.ContractFactory,
	vaultAddr common.Address,
	prices app.PriceLookup,
	log logger.LoggerInterface,
) (*TVLProvider, error) {
	v, err := newVault(caller)
	if err != nil {
		return nil, err
	}
	return &TVLProvider{
		contracts: contracts,
		vault:     v,
		vaultAddr: vaultAddr,
		prices:    prices,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// SupplyTVL is totalSupply(token) at price.
func (p *TVLProvider) SupplyTVL(ctx context.Context, token common.Address, price decimal.Decimal) (decimal.Decimal, error) {
	ctx, span := p.tracer.Start(ctx, "tvl.supply", trace.WithAttributes(attribute.String("token", token.Hex())))
	defer span.End()

	supply, err := p.contracts.PoolToken(token).TotalSupply(ctx)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}
	return asset.FromWei(supply).Mul(price), nil
}

// SupplyBalTVL values the Balancer pool behind lp from its vault balances and
// returns the share staked in reward. The pool's own BPT entry is skipped.
func (p *TVLProvider) SupplyBalTVL(ctx context.Context, reward, lp common.Address) (decimal.Decimal, error) {
	ctx, span := p.tracer.Start(ctx, "tvl.supply_bal",
		trace.WithAttributes(
			attribute.String("reward", reward.Hex()),
			attribute.String("lp", lp.Hex()),
		),
	)
	defer span.End()

	lpToken := p.contracts.PoolToken(lp)

	lpSupply, err := lpToken.TotalSupply(ctx)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}
	if lpSupply.Sign() == 0 {
		p.logger.Warn(ctx, "lp token has no supply", "lp", lp.Hex())
		return decimal.Zero, nil
	}

	poolID, err := lpToken.GetPoolID(ctx)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}

	pool, err := p.vault.poolTokens(ctx, p.vaultAddr, poolID)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}

	poolValue := decimal.Zero
	for i, token := range pool.Tokens {
		if token == lp {
			continue
		}
		value, err := p.tokenValue(ctx, token, pool.Balances[i], p.prices.PriceForContract(ctx, token))
		if err != nil {
			span.RecordError(err)
			return decimal.Zero, err
		}
		poolValue = poolValue.Add(value)
	}

	staked, err := p.contracts.PoolToken(reward).TotalSupply(ctx)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}

	share := decimal.NewFromBigInt(staked, 0).Div(decimal.NewFromBigInt(lpSupply, 0))
	tvl := poolValue.Mul(share)

	span.SetAttributes(attribute.String("pool_value", poolValue.StringFixed(2)))
	return tvl, nil
}

// TokensBalTVL sums the first len(prices) vault balances of poolID, each at
// the matching price.
func (p *TVLProvider) TokensBalTVL(ctx context.Context, vaultAddr common.Address, poolID [32]byte, prices []decimal.Decimal) (decimal.Decimal, error) {
	ctx, span := p.tracer.Start(ctx, "tvl.tokens_bal",
		trace.WithAttributes(attribute.String("vault", vaultAddr.Hex())),
	)
	defer span.End()

	pool, err := p.vault.poolTokens(ctx, vaultAddr, poolID)
	if err != nil {
		span.RecordError(err)
		return decimal.Zero, err
	}
	if len(pool.Tokens) < len(prices) {
		return decimal.Zero, fmt.Errorf("pool has %d tokens, %d prices given", len(pool.Tokens), len(prices))
	}

	tvl := decimal.Zero
	for i, price := range prices {
		value, err := p.tokenValue(ctx, pool.Tokens[i], pool.Balances[i], price)
		if err != nil {
			span.RecordError(err)
			return decimal.Zero, err
		}
		tvl = tvl.Add(value)
	}
	return tvl, nil
}

func (p *TVLProvider) tokenValue(ctx context.Context, token common.Address, balance *big.Int, price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() || balance.Sign() == 0 {
		return decimal.Zero, nil
	}
	dec, err := p.contracts.PoolToken(token).Decimals(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return asset.FromUnits(balance, dec).Mul(price), nil
}

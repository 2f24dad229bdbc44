package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/asset"
	"github.com/fd1az/aura-yield/internal/logger"
)

// maxExtraRewards bounds a corrupt or hostile extraRewardsLength.
const maxExtraRewards = 256

// ExtraRewardEnumerator sums the yield of the secondary reward streams
// attached to a distributor.
type ExtraRewardEnumerator struct {
	contracts ContractFactory
	prices    PriceLookup
	logger    logger.LoggerInterface
}

// NewExtraRewardEnumerator creates a new ExtraRewardEnumerator.
func NewExtraRewardEnumerator(contracts ContractFactory, prices PriceLookup, log logger.LoggerInterface) *ExtraRewardEnumerator {
	return &ExtraRewardEnumerator{
		contracts: contracts,
		prices:    prices,
		logger:    log,
	}
}

// Sum returns the combined percentage yield of every extra stream of primary
// against tvl. The stream count is read once; a stream that fails is logged
// and skipped so the others still count.
func (e *ExtraRewardEnumerator) Sum(ctx context.Context, primary common.Address, tvl decimal.Decimal) decimal.Decimal {
	dist := e.contracts.Distributor(primary)

	length, err := dist.ExtraRewardsLength(ctx)
	if err != nil {
		e.logger.Warn(ctx, "extra rewards length unavailable", "distributor", primary.Hex(), "error", err)
		return decimal.Zero
	}
	if !length.IsInt64() || length.Int64() > maxExtraRewards {
		e.logger.Warn(ctx, "extra rewards length out of range", "distributor", primary.Hex(), "length", length.String())
		return decimal.Zero
	}

	n := length.Int64()
	total := decimal.Zero
	for i := int64(0); i < n; i++ {
		contribution, err := e.stream(ctx, dist, i, tvl)
		if err != nil {
			e.logger.Warn(ctx, "extra reward stream skipped",
				"distributor", primary.Hex(), "index", i, "error", err)
			continue
		}
		total = total.Add(contribution)
	}
	return total
}

func (e *ExtraRewardEnumerator) stream(ctx context.Context, dist RewardDistributor, i int64, tvl decimal.Decimal) (decimal.Decimal, error) {
	addr, err := dist.ExtraRewards(ctx, big.NewInt(i))
	if err != nil {
		return decimal.Zero, fmt.Errorf("extraRewards(%d): %w", i, err)
	}

	extra := e.contracts.Distributor(addr)
	rateRaw, err := extra.RewardRate(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rewardRate on %s: %w", addr.Hex(), err)
	}
	if rateRaw.Sign() == 0 {
		return decimal.Zero, nil
	}

	token, err := extra.RewardToken(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rewardToken on %s: %w", addr.Hex(), err)
	}
	base, err := e.contracts.Wrapped(token).BaseToken(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("baseToken on %s: %w", token.Hex(), err)
	}

	price := e.prices.PriceForContract(ctx, base)
	if !price.IsPositive() {
		e.logger.Debug(ctx, "extra reward token unpriced", "token", base.Hex())
		return decimal.Zero, nil
	}

	rate := asset.FromWei(rateRaw)
	return domain.YieldPercent(domain.Annualize(rate, price), tvl), nil
}

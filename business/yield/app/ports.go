// Package app contains application services and port definitions for the yield context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	blockchainDomain "github.com/fd1az/aura-yield/business/blockchain/domain"
	pricingDomain "github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/business/yield/domain"
)

// RewardDistributor is an Aura/Balancer base reward pool.
type RewardDistributor interface {
	RewardRate(ctx context.Context) (*big.Int, error)
	RewardToken(ctx context.Context) (common.Address, error)
	ExtraRewardsLength(ctx context.Context) (*big.Int, error)
	ExtraRewards(ctx context.Context, index *big.Int) (common.Address, error)
	Asset(ctx context.Context) (common.Address, error)
}

// RewardConverter mints AURA against BAL emissions.
type RewardConverter interface {
	// ConvertCrvToCvx maps a raw BAL amount to the raw AURA amount minted for it.
	ConvertCrvToCvx(ctx context.Context, amount *big.Int) (*big.Int, error)
}

// WrappedToken is an extra-reward stash token wrapping the priced asset.
type WrappedToken interface {
	BaseToken(ctx context.Context) (common.Address, error)
}

// PoolToken is a Balancer pool token or any ERC-20 read for supply.
type PoolToken interface {
	GetPoolID(ctx context.Context) ([32]byte, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	Decimals(ctx context.Context) (uint8, error)
}

// ContractFactory binds contract roles to addresses.
type ContractFactory interface {
	Distributor(addr common.Address) RewardDistributor
	Converter(addr common.Address) RewardConverter
	Wrapped(addr common.Address) WrappedToken
	PoolToken(addr common.Address) PoolToken
}

// SwapApySource returns the swap-fee APR tail for an Aura pool id. It never
// fails: a degraded fetch yields [0].
type SwapApySource interface {
	SwapApy(ctx context.Context, auraPoolID string) []decimal.Decimal
}

// TVLProvider resolves the USD denominator for each pool shape.
type TVLProvider interface {
	// SupplyBalTVL values the share of a Balancer pool staked in reward.
	SupplyBalTVL(ctx context.Context, reward, lp common.Address) (decimal.Decimal, error)
	// TokensBalTVL values the first len(prices) vault balances of poolID.
	TokensBalTVL(ctx context.Context, vault common.Address, poolID [32]byte, prices []decimal.Decimal) (decimal.Decimal, error)
	// SupplyTVL is totalSupply(token) at price.
	SupplyTVL(ctx context.Context, token common.Address, price decimal.Decimal) (decimal.Decimal, error)
}

// PriceLookup prices a token by address; zero means unknown.
type PriceLookup interface {
	PriceForContract(ctx context.Context, token common.Address) decimal.Decimal
}

// PriceSource builds the per-cycle price table.
type PriceSource interface {
	Table(ctx context.Context) (pricingDomain.PriceTable, error)
}

// BlockSource stamps cycles with the chain head.
type BlockSource interface {
	LatestBlock(ctx context.Context) (*blockchainDomain.Block, error)
}

// PoolComposer computes one pool's result.
type PoolComposer interface {
	Compose(ctx context.Context, pool domain.Pool, prices pricingDomain.PriceTable) (*domain.ApyResult, error)
}

// Reporter publishes cycle results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report publishes a finished cycle.
	Report(ctx context.Context, cycle *domain.Cycle)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Notifier delivers alerts.
type Notifier interface {
	Notify(ctx context.Context, alert domain.Alert) error
}

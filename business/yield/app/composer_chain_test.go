package app_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pricingDomain "github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/business/yield/infra/balancer"
	"github.com/fd1az/aura-yield/business/yield/infra/contracts"
	"github.com/fd1az/aura-yield/business/yield/infra/contracts/contractstest"
	"github.com/fd1az/aura-yield/internal/asset"
	"github.com/fd1az/aura-yield/internal/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (nopLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (nopLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (nopLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = nopLogger{}

type noSwap struct{}

func (noSwap) SwapApy(context.Context, string) []decimal.Decimal { return []decimal.Decimal{} }

type noPrices struct{}

func (noPrices) PriceForContract(context.Context, common.Address) decimal.Decimal {
	return decimal.Zero
}

// One BAL per second at $2 against $63,072,000 staked is exactly 100%.
func TestComposer_StakedOverContractBindings(t *testing.T) {
	reward := common.HexToAddress("0x00A7BA8Ae7bca0B10A32Ea1f8e2a1Da980c6CAd2")
	minter := common.HexToAddress("0x744Be650cea753de1e69BF6BAd3c98490A855f52")
	vault := common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8")

	chain := contractstest.New(
		contracts.RewardDistributorABI,
		contracts.RewardConverterABI,
		contracts.PoolTokenABI,
		balancer.VaultABI,
	).
		Returns(reward, "rewardRate", contractstest.Wei(1)).
		Returns(reward, "totalSupply", contractstest.Wei(31_536_000)).
		Returns(minter, "convertCrvToCvx", big.NewInt(0))

	factory, err := contracts.NewFactory(chain)
	require.NoError(t, err)
	tvl, err := balancer.NewTVLProvider(chain, factory, vault, noPrices{}, nopLogger{})
	require.NoError(t, err)

	composer := app.NewComposer(factory, noSwap{}, tvl, noPrices{}, nopLogger{})

	prices := pricingDomain.PriceTable{
		asset.SlugBalancer: {Slug: asset.SlugBalancer, USD: decimal.NewFromInt(2)},
		asset.SlugAuraBal:  {Slug: asset.SlugAuraBal, USD: decimal.NewFromInt(2)},
	}

	res, err := composer.Compose(context.Background(), domain.Pool{
		Name:       "aurabal",
		Kind:       domain.KindStaked,
		BalReward:  reward,
		AuraReward: minter,
		AuraPoolID: "auraBal",
	}, prices)
	require.NoError(t, err)

	require.True(t, res.TVL.Equal(decimal.NewFromInt(63_072_000)), "TVL = %s", res.TVL)

	got, _ := res.APY.Float64()
	require.InDelta(t, 100.0, got, 1e-9)
	require.Equal(t, 1, chain.Calls(reward, "rewardRate"))
}

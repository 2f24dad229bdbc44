package contracts_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/aura-yield/business/yield/infra/contracts"
	"github.com/fd1az/aura-yield/business/yield/infra/contracts/contractstest"
	"github.com/fd1az/aura-yield/internal/apperror"
)

var (
	balReward = common.HexToAddress("0x00A7BA8Ae7bca0B10A32Ea1f8e2a1Da980c6CAd2")
	minter    = common.HexToAddress("0x744Be650cea753de1e69BF6BAd3c98490A855f52")
	stash     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	extra     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	base      = common.HexToAddress("0x3333333333333333333333333333333333333333")
	lp        = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func newChain() *contractstest.Chain {
	return contractstest.New(
		contracts.RewardDistributorABI,
		contracts.RewardConverterABI,
		contracts.WrappedTokenABI,
		contracts.PoolTokenABI,
	)
}

func newFactory(t *testing.T, chain *contractstest.Chain) *contracts.Factory {
	t.Helper()
	f, err := contracts.NewFactory(chain)
	require.NoError(t, err)
	return f
}

func TestDistributor(t *testing.T) {
	chain := newChain().
		Returns(balReward, "rewardRate", contractstest.Wei(3)).
		Returns(balReward, "rewardToken", base).
		Returns(balReward, "extraRewardsLength", big.NewInt(2)).
		Returns(balReward, "asset", lp).
		On(balReward, "extraRewards", func(args []any) ([]any, error) {
			if args[0].(*big.Int).Int64() == 1 {
				return []any{extra}, nil
			}
			return []any{stash}, nil
		})

	d := newFactory(t, chain).Distributor(balReward)
	ctx := context.Background()

	rate, err := d.RewardRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rate.Cmp(contractstest.Wei(3)))

	token, err := d.RewardToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, base, token)

	n, err := d.ExtraRewardsLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Int64())

	second, err := d.ExtraRewards(ctx, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, extra, second)

	first, err := d.ExtraRewards(ctx, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, stash, first)

	asset, err := d.Asset(ctx)
	require.NoError(t, err)
	assert.Equal(t, lp, asset)
}

func TestConverter_PassesRawAmount(t *testing.T) {
	var seen *big.Int
	chain := newChain().On(minter, "convertCrvToCvx", func(args []any) ([]any, error) {
		seen = args[0].(*big.Int)
		return []any{new(big.Int).Div(seen, big.NewInt(2))}, nil
	})

	out, err := newFactory(t, chain).Converter(minter).ConvertCrvToCvx(context.Background(), contractstest.Wei(4))
	require.NoError(t, err)
	assert.Equal(t, 0, seen.Cmp(contractstest.Wei(4)))
	assert.Equal(t, 0, out.Cmp(contractstest.Wei(2)))
}

func TestWrappedAndPoolToken(t *testing.T) {
	var poolID [32]byte
	poolID[0], poolID[31] = 0xcf, 0x74

	chain := newChain().
		Returns(stash, "baseToken", base).
		Returns(lp, "getPoolId", poolID).
		Returns(lp, "totalSupply", contractstest.Wei(1000)).
		Returns(lp, "decimals", uint8(18))
	f := newFactory(t, chain)
	ctx := context.Background()

	got, err := f.Wrapped(stash).BaseToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	id, err := f.PoolToken(lp).GetPoolID(ctx)
	require.NoError(t, err)
	assert.Equal(t, poolID, id)

	supply, err := f.PoolToken(lp).TotalSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, supply.Cmp(contractstest.Wei(1000)))

	dec, err := f.PoolToken(lp).Decimals(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint8(18), dec)
}

func TestBinding_Errors(t *testing.T) {
	chain := newChain().Fails(balReward, "rewardRate", errors.New("connection reset"))
	f := newFactory(t, chain)

	_, err := f.Distributor(balReward).RewardRate(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeContractCallFailed, apperror.GetCode(err))
	assert.Contains(t, err.Error(), "rewardRate@"+balReward.Hex())

	// No handler: the fake reverts.
	_, err = f.Distributor(balReward).Asset(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeContractCallFailed, apperror.GetCode(err))
}

// rawCaller answers every call with the same bytes.
type rawCaller []byte

func (r rawCaller) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return r, nil
}

func TestBinding_MalformedResponse(t *testing.T) {
	f, err := contracts.NewFactory(rawCaller{0x01})
	require.NoError(t, err)

	_, err = f.Distributor(balReward).RewardRate(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeABIDecodeFailed, apperror.GetCode(err))
}

package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/internal/apperror"
)

// Factory binds contract roles over one caller. It is safe for concurrent use.
type Factory struct {
	caller      ethereum.ContractCaller
	distributor abi.ABI
	converter   abi.ABI
	wrapped     abi.ABI
	poolToken   abi.ABI
}

var _ app.ContractFactory = (*Factory)(nil)

// NewFactory parses every role ABI once.
func NewFactory(caller ethereum.ContractCaller) (*Factory, error) {
	f := &Factory{caller: caller}

	for _, p := range []struct {
		dst  *abi.ABI
		json string
		role string
	}{
		{&f.distributor, RewardDistributorABI, "distributor"},
		{&f.converter, RewardConverterABI, "converter"},
		{&f.wrapped, WrappedTokenABI, "wrapped token"},
		{&f.poolToken, PoolTokenABI, "pool token"},
	} {
		parsed, err := abi.JSON(strings.NewReader(p.json))
		if err != nil {
			return nil, fmt.Errorf("parse %s ABI: %w", p.role, err)
		}
		*p.dst = parsed
	}

	return f, nil
}

func (f *Factory) Distributor(addr common.Address) app.RewardDistributor {
	return &distributor{binding{f.caller, f.distributor, addr}}
}

func (f *Factory) Converter(addr common.Address) app.RewardConverter {
	return &converter{binding{f.caller, f.converter, addr}}
}

func (f *Factory) Wrapped(addr common.Address) app.WrappedToken {
	return &wrapped{binding{f.caller, f.wrapped, addr}}
}

func (f *Factory) PoolToken(addr common.Address) app.PoolToken {
	return &poolToken{binding{f.caller, f.poolToken, addr}}
}

// binding is one contract address under one role ABI.
type binding struct {
	caller  ethereum.ContractCaller
	abi     abi.ABI
	address common.Address
}

// call packs, executes at latest and unpacks a view method.
func (b binding) call(ctx context.Context, method string, args ...any) ([]any, error) {
	where := method + "@" + b.address.Hex()

	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, apperror.New(apperror.CodeABIEncodeFailed,
			apperror.WithContext(where),
			apperror.WithCause(err))
	}

	to := b.address
	raw, err := b.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(where),
			apperror.WithCause(err))
	}

	out, err := b.abi.Unpack(method, raw)
	if err != nil {
		return nil, apperror.New(apperror.CodeABIDecodeFailed,
			apperror.WithContext(where),
			apperror.WithCause(err))
	}
	if len(out) == 0 {
		return nil, apperror.New(apperror.CodeABIDecodeFailed,
			apperror.WithContext(where+": empty output"))
	}
	return out, nil
}

func (b binding) uint256(ctx context.Context, method string, args ...any) (*big.Int, error) {
	out, err := b.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, b.typeError(method, out[0])
	}
	return v, nil
}

func (b binding) addressOf(ctx context.Context, method string, args ...any) (common.Address, error) {
	out, err := b.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, b.typeError(method, out[0])
	}
	return v, nil
}

func (b binding) typeError(method string, got any) error {
	return apperror.New(apperror.CodeABIDecodeFailed,
		apperror.WithContext(fmt.Sprintf("%s@%s: unexpected %T", method, b.address.Hex(), got)))
}

type distributor struct{ binding }

func (d *distributor) RewardRate(ctx context.Context) (*big.Int, error) {
	return d.uint256(ctx, "rewardRate")
}

func (d *distributor) RewardToken(ctx context.Context) (common.Address, error) {
	return d.addressOf(ctx, "rewardToken")
}

func (d *distributor) ExtraRewardsLength(ctx context.Context) (*big.Int, error) {
	return d.uint256(ctx, "extraRewardsLength")
}

func (d *distributor) ExtraRewards(ctx context.Context, index *big.Int) (common.Address, error) {
	return d.addressOf(ctx, "extraRewards", index)
}

func (d *distributor) Asset(ctx context.Context) (common.Address, error) {
	return d.addressOf(ctx, "asset")
}

type converter struct{ binding }

func (c *converter) ConvertCrvToCvx(ctx context.Context, amount *big.Int) (*big.Int, error) {
	return c.uint256(ctx, "convertCrvToCvx", amount)
}

type wrapped struct{ binding }

func (w *wrapped) BaseToken(ctx context.Context) (common.Address, error) {
	return w.addressOf(ctx, "baseToken")
}

type poolToken struct{ binding }

func (p *poolToken) GetPoolID(ctx context.Context) ([32]byte, error) {
	out, err := p.call(ctx, "getPoolId")
	if err != nil {
		return [32]byte{}, err
	}
	v, ok := out[0].([32]byte)
	if !ok {
		return [32]byte{}, p.typeError("getPoolId", out[0])
	}
	return v, nil
}

func (p *poolToken) TotalSupply(ctx context.Context) (*big.Int, error) {
	return p.uint256(ctx, "totalSupply")
}

func (p *poolToken) Decimals(ctx context.Context) (uint8, error) {
	out, err := p.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	v, ok := out[0].(uint8)
	if !ok {
		return 0, p.typeError("decimals", out[0])
	}
	return v, nil
}

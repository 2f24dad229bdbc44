// Package balancer values Aura positions from Balancer vault balances and
// token supplies.
package balancer

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/aura-yield/internal/apperror"
)

// VaultABI is the Balancer V2 vault balance read.
const VaultABI = `[
	{
		"inputs": [{"internalType": "bytes32", "name": "poolId", "type": "bytes32"}],
		"name": "getPoolTokens",
		"outputs": [
			{"internalType": "contract IERC20[]", "name": "tokens", "type": "address[]"},
			{"internalType": "uint256[]", "name": "balances", "type": "uint256[]"},
			{"internalType": "uint256", "name": "lastChangeBlock", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// PoolTokens is the vault's view of one pool.
type PoolTokens struct {
	Tokens   []common.Address
	Balances []*big.Int
}

type vault struct {
	caller ethereum.ContractCaller
	abi    abi.ABI
}

func newVault(caller ethereum.ContractCaller) (*vault, error) {
	parsed, err := abi.JSON(strings.NewReader(VaultABI))
	if err != nil {
		return nil, fmt.Errorf("parse vault ABI: %w", err)
	}
	return &vault{caller: caller, abi: parsed}, nil
}

func (v *vault) poolTokens(ctx context.Context, addr common.Address, poolID [32]byte) (*PoolTokens, error) {
	where := fmt.Sprintf("getPoolTokens(%x)@%s", poolID[:4], addr.Hex())

	data, err := v.abi.Pack("getPoolTokens", poolID)
	if err != nil {
		return nil, apperror.New(apperror.CodeABIEncodeFailed, apperror.WithContext(where), apperror.WithCause(err))
	}

	raw, err := v.caller.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed, apperror.WithContext(where), apperror.WithCause(err))
	}

	var out struct {
		Tokens          []common.Address
		Balances        []*big.Int
		LastChangeBlock *big.Int
	}
	if err := v.abi.UnpackIntoInterface(&out, "getPoolTokens", raw); err != nil {
		return nil, apperror.New(apperror.CodeABIDecodeFailed, apperror.WithContext(where), apperror.WithCause(err))
	}
	if len(out.Tokens) != len(out.Balances) {
		return nil, apperror.New(apperror.CodeABIDecodeFailed,
			apperror.WithContext(fmt.Sprintf("%s: %d tokens, %d balances", where, len(out.Tokens), len(out.Balances))))
	}

	return &PoolTokens{Tokens: out.Tokens, Balances: out.Balances}, nil
}

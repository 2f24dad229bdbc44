package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Kind selects which composer prices a pool.
type Kind string

const (
	// KindLP is a Balancer LP position: BAL, AURA, extra rewards and swap fees.
	KindLP Kind = "lp"
	// KindTokens is priced from vault balances: BAL and AURA only.
	KindTokens Kind = "tokens"
	// KindStaked is a composite staked position priced at its own token price.
	KindStaked Kind = "staked"
)

// ParseKind validates s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLP, KindTokens, KindStaked:
		return k, nil
	default:
		return "", fmt.Errorf("unknown pool kind %q", s)
	}
}

// Pool is one tracked position.
type Pool struct {
	Name       string
	Kind       Kind
	BalReward  common.Address
	AuraReward common.Address
	// Asset overrides the distributor's asset() when set.
	Asset          common.Address
	Vault          common.Address
	BalancerPoolID [32]byte
	AuraPoolID     string
}

// LPRequest is the input of the LP composer.
type LPRequest struct {
	BalReward  common.Address
	AuraReward common.Address
	Asset      common.Address
	AuraPoolID string
}

// TokensRequest is the input of the token-pool composer.
type TokensRequest struct {
	BalReward      common.Address
	AuraReward     common.Address
	Vault          common.Address
	BalancerPoolID [32]byte
}

// StakedRequest is the input of the staked-position composer.
type StakedRequest struct {
	BalReward  common.Address
	AuraReward common.Address
	AuraPoolID string
}

func (p Pool) LPRequest() LPRequest {
	return LPRequest{
		BalReward:  p.BalReward,
		AuraReward: p.AuraReward,
		Asset:      p.Asset,
		AuraPoolID: p.AuraPoolID,
	}
}

func (p Pool) TokensRequest() TokensRequest {
	return TokensRequest{
		BalReward:      p.BalReward,
		AuraReward:     p.AuraReward,
		Vault:          p.Vault,
		BalancerPoolID: p.BalancerPoolID,
	}
}

func (p Pool) StakedRequest() StakedRequest {
	return StakedRequest{
		BalReward:  p.BalReward,
		AuraReward: p.AuraReward,
		AuraPoolID: p.AuraPoolID,
	}
}

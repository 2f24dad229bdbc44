package app

import (
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/config"
)

// PoolsFromConfig converts the validated pools section into domain pools,
// keeping the configured order.
func PoolsFromConfig(cfgs []config.PoolConfig) ([]domain.Pool, error) {
	pools := make([]domain.Pool, 0, len(cfgs))
	for i := range cfgs {
		pc := &cfgs[i]

		kind, err := domain.ParseKind(pc.Kind)
		if err != nil {
			return nil, apperror.New(apperror.CodeInvalidPool,
				apperror.WithContext(pc.Name), apperror.WithCause(err))
		}

		pool := domain.Pool{
			Name:       pc.Name,
			Kind:       kind,
			BalReward:  pc.BalRewardHex(),
			AuraReward: pc.AuraRewardHex(),
			Asset:      pc.AssetHex(),
			AuraPoolID: pc.AuraID,
		}

		if kind == domain.KindTokens {
			id, err := pc.PoolIDBytes()
			if err != nil {
				return nil, apperror.New(apperror.CodeInvalidPool,
					apperror.WithContext(pc.Name), apperror.WithCause(err))
			}
			pool.Vault = pc.VaultHex()
			pool.BalancerPoolID = id
		}

		pools = append(pools, pool)
	}
	return pools, nil
}

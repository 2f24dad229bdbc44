// Package blockchain implements the chain access context: one rate-limited,
// circuit-broken reader shared by every contract binding.
package blockchain

import (
	"context"

	"github.com/fd1az/aura-yield/business/blockchain/app"
	blockchainDI "github.com/fd1az/aura-yield/business/blockchain/di"
	"github.com/fd1az/aura-yield/business/blockchain/infra/ethereum"
	"github.com/fd1az/aura-yield/internal/config"
	"github.com/fd1az/aura-yield/internal/di"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, blockchainDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		backend := sr.Get("ethClient").(ethereum.Backend)

		clientCfg := ethereum.DefaultClientConfig(cfg.Ethereum.HTTPURL)
		if cfg.Ethereum.RequestTimeout > 0 {
			clientCfg.RequestTimeout = cfg.Ethereum.RequestTimeout
		}
		if cfg.Ethereum.RateLimitRPS > 0 {
			clientCfg.RateLimitRPS = cfg.Ethereum.RateLimitRPS
			clientCfg.RateLimitBurst = cfg.Ethereum.RateLimitBurst
		}

		client, err := ethereum.NewClient(clientCfg, backend, log)
		if err != nil {
			panic("failed to create chain reader: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, blockchainDI.BlockchainService, func(sr di.ServiceRegistry) *app.BlockchainService {
		return app.NewBlockchainService(blockchainDI.GetChainReader(sr))
	})

	return nil
}

// Startup probes the node once. A failed probe is logged, not fatal: the
// reader recovers on the next cycle.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	svc := blockchainDI.GetBlockchainService(mono.Services())

	block, err := svc.LatestBlock(ctx)
	if err != nil {
		log.Error(ctx, "node probe failed", "error", err)
		return nil
	}

	log.Info(ctx, "blockchain module started", "block", block.Number, "chain_id", mono.Config().Ethereum.ChainID)
	return nil
}

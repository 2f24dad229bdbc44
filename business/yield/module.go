// Package yield implements the yield bounded context: per-pool APY
// composition, the recomputation schedule, alerts and reporting.
package yield

import (
	"context"
	"os"

	blockchainDI "github.com/fd1az/aura-yield/business/blockchain/di"
	pricingDI "github.com/fd1az/aura-yield/business/pricing/di"
	"github.com/fd1az/aura-yield/business/yield/app"
	yieldDI "github.com/fd1az/aura-yield/business/yield/di"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/business/yield/infra/aura"
	"github.com/fd1az/aura-yield/business/yield/infra/balancer"
	"github.com/fd1az/aura-yield/business/yield/infra/contracts"
	"github.com/fd1az/aura-yield/business/yield/infra/notify"
	"github.com/fd1az/aura-yield/business/yield/infra/report"
	"github.com/fd1az/aura-yield/internal/config"
	"github.com/fd1az/aura-yield/internal/di"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/monolith"
)

// Module implements the yield bounded context.
type Module struct{}

// RegisterServices registers all yield services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, yieldDI.Contracts, func(sr di.ServiceRegistry) app.ContractFactory {
		chain := blockchainDI.GetBlockchainService(sr)
		f, err := contracts.NewFactory(chain.Caller())
		if err != nil {
			panic("failed to parse contract ABIs: " + err.Error())
		}
		return f
	})

	di.RegisterToken(c, yieldDI.SwapSource, func(sr di.ServiceRegistry) app.SwapApySource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := aura.NewCacheClient(aura.Config{
			BaseURL:          cfg.Aura.AprURL,
			CompositePoolIDs: cfg.Aura.CompositePoolIDs,
			Timeout:          cfg.Aura.RequestTimeout,
		}, log)
		if err != nil {
			panic("failed to create aura cache client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, yieldDI.TVL, func(sr di.ServiceRegistry) app.TVLProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		chain := blockchainDI.GetBlockchainService(sr)

		tvl, err := balancer.NewTVLProvider(
			chain.Caller(),
			yieldDI.GetContracts(sr),
			cfg.Aura.VaultAddressHex(),
			pricingDI.GetPricingService(sr),
			log,
		)
		if err != nil {
			panic("failed to create tvl provider: " + err.Error())
		}
		return tvl
	})

	di.RegisterToken(c, yieldDI.Composer, func(sr di.ServiceRegistry) app.PoolComposer {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewComposer(
			yieldDI.GetContracts(sr),
			yieldDI.GetSwapSource(sr),
			yieldDI.GetTVL(sr),
			pricingDI.GetPricingService(sr),
			log,
		)
	})

	di.RegisterToken(c, yieldDI.Notifier, func(sr di.ServiceRegistry) app.Notifier {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		n, err := notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL, cfg.App.Name, log)
		if err != nil {
			panic("failed to create notifier: " + err.Error())
		}
		return n
	})

	di.RegisterToken(c, yieldDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.App.TUIMode {
			return report.NewMultiReporter(report.NewTUIReporter(nil), report.NewLogReporter(log))
		}
		return report.NewMultiReporter(report.NewLogReporter(log), report.NewConsoleReporter(os.Stdout))
	})

	di.RegisterToken(c, yieldDI.Runner, func(sr di.ServiceRegistry) *app.Runner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		pools, err := app.PoolsFromConfig(cfg.Pools)
		if err != nil {
			panic("invalid pools: " + err.Error())
		}

		runner, err := app.NewRunner(
			app.RunnerConfig{
				Spec:           cfg.Scheduler.Spec,
				MaxConcurrency: cfg.Scheduler.MaxConcurrency,
				RunOnStart:     cfg.Scheduler.RunOnStart,
				Thresholds: domain.Thresholds{
					MinAPY:           cfg.Notify.MinAPYDecimal(),
					DeviationPercent: cfg.Notify.DeviationPercentDecimal(),
				},
			},
			pools,
			yieldDI.GetComposer(sr),
			pricingDI.GetPricingService(sr),
			blockchainDI.GetBlockchainService(sr),
			yieldDI.GetReporter(sr),
			yieldDI.GetNotifier(sr),
			log,
		)
		if err != nil {
			panic("failed to create runner: " + err.Error())
		}
		return runner
	})

	return nil
}

// Startup resolves the runner so wiring errors surface before the first
// cycle. The schedule itself is started by the caller.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	runner := yieldDI.GetRunner(mono.Services())

	names := make([]string, 0, len(runner.Pools()))
	for _, p := range runner.Pools() {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		mono.Logger().Warn(ctx, "no pools configured, cycles will be empty")
	}

	mono.Logger().Info(ctx, "yield module started", "pools", names, "schedule", mono.Config().Scheduler.Spec)
	return nil
}

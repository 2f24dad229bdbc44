// Package pricing implements the pricing bounded context: USD prices keyed by
// slug for the cycle table and by contract address for reward tokens.
package pricing

import (
	"context"

	"github.com/fd1az/aura-yield/business/pricing/app"
	pricingDI "github.com/fd1az/aura-yield/business/pricing/di"
	"github.com/fd1az/aura-yield/business/pricing/infra/coingecko"
	"github.com/fd1az/aura-yield/internal/asset"
	"github.com/fd1az/aura-yield/internal/config"
	"github.com/fd1az/aura-yield/internal/di"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.PriceProvider, func(sr di.ServiceRegistry) app.PriceProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := coingecko.NewClient(coingecko.Config{
			BaseURL:        cfg.Prices.BaseURL,
			APIKey:         cfg.Prices.APIKey,
			Platform:       cfg.Prices.Platform,
			CacheTTL:       cfg.Prices.CacheTTL,
			RequestTimeout: cfg.Prices.RequestTimeout,
			RateLimitRPS:   cfg.Prices.RateLimitRPS,
			RateLimitBurst: cfg.Prices.RateLimitBurst,
		}, log)
		if err != nil {
			panic("failed to create coingecko client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		registry := sr.Get("assetRegistry").(*asset.Registry)
		return app.NewPricingService(pricingDI.GetPriceProvider(sr), registry)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Resolve eagerly so a bad price config fails at startup.
	pricingDI.GetPricingService(mono.Services())

	mono.Logger().Info(ctx, "pricing module started", "assets", mono.AssetRegistry().Slugs())
	return nil
}

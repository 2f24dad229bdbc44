package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/internal/asset"
)

// PricingService resolves prices for the yield cycles.
type PricingService struct {
	provider PriceProvider
	registry *asset.Registry
}

// NewPricingService creates a new PricingService.
func NewPricingService(provider PriceProvider, registry *asset.Registry) *PricingService {
	return &PricingService{
		provider: provider,
		registry: registry,
	}
}

// Table fetches one price table covering every registered asset.
func (s *PricingService) Table(ctx context.Context) (domain.PriceTable, error) {
	return s.provider.PriceTable(ctx, s.registry.Slugs())
}

// PriceForContract returns the USD price of token, zero when unknown.
func (s *PricingService) PriceForContract(ctx context.Context, token common.Address) decimal.Decimal {
	return s.provider.PriceForContract(ctx, token)
}

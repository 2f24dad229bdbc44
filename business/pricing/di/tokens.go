// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/aura-yield/business/pricing/app"
	"github.com/fd1az/aura-yield/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	PriceProvider = di.NewToken[app.PriceProvider]("pricing:priceProvider")
)

func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetPriceProvider(c di.ServiceRegistry) app.PriceProvider {
	return di.GetToken(c, PriceProvider)
}

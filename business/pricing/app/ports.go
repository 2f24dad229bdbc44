// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/aura-yield/business/pricing/domain"
)

// PriceProvider is a USD price source.
type PriceProvider interface {
	// PriceTable fetches USD prices for the given slugs. Slugs the source does
	// not know are absent from the table.
	PriceTable(ctx context.Context, slugs []string) (domain.PriceTable, error)

	// PriceForContract returns the USD price of an ERC-20 by address, zero
	// when unknown or on any failure.
	PriceForContract(ctx context.Context, token common.Address) decimal.Decimal
}

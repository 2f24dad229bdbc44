// Package asset models the ERC20 tokens the yield calculator prices.
// Raw on-chain values stay big.Int; decimal.Decimal is produced only by the
// explicit fixed-point conversions in amount.go.
package asset

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Asset is token metadata. Identity is the contract address; the symbol is
// display only and the slug keys the price table.
type Asset struct {
	address  common.Address
	symbol   string
	name     string
	slug     string
	decimals uint8
}

// NewToken creates a token asset.
func NewToken(address common.Address, symbol, name, slug string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{
		address:  address,
		symbol:   symbol,
		name:     name,
		slug:     strings.ToLower(slug),
		decimals: decimals,
	}
}

// Address returns the token contract address.
func (a *Asset) Address() common.Address { return a.address }

// Symbol returns the ticker symbol (e.g. "BAL").
func (a *Asset) Symbol() string { return a.symbol }

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Slug returns the price-table key, empty when the token has none.
func (a *Asset) Slug() string { return a.slug }

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 { return a.decimals }

func (a *Asset) String() string { return a.symbol }

// Equals compares two assets by address.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.address == other.address
}

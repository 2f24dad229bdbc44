package asset

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// WeiDecimals is the fixed-point scale of ERC20 reward rates.
const WeiDecimals = 18

var (
	ErrNilRaw          = errors.New("asset: nil raw value")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrTooManyDecimals = errors.New("asset: too many decimal places")
)

// Amount is an immutable raw integer together with its decimal scale.
type Amount struct {
	raw      *big.Int
	decimals uint8
}

// NewAmount copies raw into an Amount scaled by decimals.
func NewAmount(raw *big.Int, decimals uint8) (Amount, error) {
	if raw == nil {
		return Amount{}, ErrNilRaw
	}
	if raw.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{raw: new(big.Int).Set(raw), decimals: decimals}, nil
}

// Wei wraps an 18-decimal raw value. A nil raw is treated as zero.
func Wei(raw *big.Int) Amount {
	if raw == nil {
		raw = new(big.Int)
	}
	return Amount{raw: new(big.Int).Set(raw), decimals: WeiDecimals}
}

// FromWei converts an 18-decimal raw integer to its decimal value
// (raw / 10^18) without going through floating point.
func FromWei(raw *big.Int) decimal.Decimal {
	return Wei(raw).Decimal()
}

// FromUnits converts a raw integer with the given decimals to a decimal value.
func FromUnits(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// ParseDecimal converts a human value back to raw units, rejecting values
// with more precision than decimals allows.
func ParseDecimal(d decimal.Decimal, decimals uint8) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}
	return Amount{raw: shifted.BigInt(), decimals: decimals}, nil
}

// MustParseWei parses a decimal string into an 18-decimal Amount, panicking
// on bad input. Intended for constants and tests.
func MustParseWei(s string) Amount {
	a, err := ParseDecimal(decimal.RequireFromString(s), WeiDecimals)
	if err != nil {
		panic(err)
	}
	return a
}

// Raw returns a copy of the raw value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.raw)
}

// Decimals returns the scale.
func (a Amount) Decimals() uint8 { return a.decimals }

// IsZero reports whether the raw value is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// Decimal returns raw / 10^decimals.
func (a Amount) Decimal() decimal.Decimal {
	return FromUnits(a.raw, a.decimals)
}

// String renders the decimal value.
func (a Amount) String() string {
	return a.Decimal().String()
}

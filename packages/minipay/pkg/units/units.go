package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// StablecoinDecimals is the on-chain scale of the cUSD token.
	StablecoinDecimals int32 = 18
	// DisplayPrecision is the number of fraction digits shown to the user.
	DisplayPrecision int32 = 2
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrTooManyDecimals = errors.New("amount has more fraction digits than the token supports")
	ErrAmountOverflow  = errors.New("amount does not fit into uint256")
)

// ParseAmount parses a user entered decimal amount.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	return d, nil
}

// ToBaseUnits converts a decimal amount string into the token's integer unit.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %s (max %d)", ErrTooManyDecimals, amount, decimals)
	}

	raw := shifted.BigInt()
	if _, overflow := uint256.FromBig(raw); overflow {
		return nil, ErrAmountOverflow
	}

	return raw, nil
}

// FromBaseUnits converts an integer token amount into a decimal.
func FromBaseUnits(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(raw, -decimals)
}

// FormatUnits renders an integer token amount with a fixed number of fraction digits.
func FormatUnits(raw *big.Int, decimals int32, precision int32) string {
	return FromBaseUnits(raw, decimals).StringFixed(precision)
}

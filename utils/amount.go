// Package utils provides amount and address helpers shared by the builder,
// the resolver, and the payment flow.
package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/x402x/gives/types"
)

// NormalizeAmount strips the currency-symbol prefix donors type or configs
// carry ("$5", "$ 5"). Every numeric or atomic conversion goes through this
// first; "$5" and "5" must behave identically everywhere.
func NormalizeAmount(amount string) string {
	trimmed := strings.TrimSpace(amount)
	trimmed = strings.TrimPrefix(trimmed, "$")
	return strings.TrimSpace(trimmed)
}

// ParseAmount parses a normalized display amount into a decimal. Negative
// and malformed amounts are rejected.
func ParseAmount(amount string) (decimal.Decimal, error) {
	normalized := NormalizeAmount(amount)
	if normalized == "" {
		return decimal.Zero, types.NewError(types.ErrInvalidAmount, "amount cannot be empty")
	}

	dec, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, types.NewError(types.ErrInvalidAmount,
			fmt.Sprintf("invalid amount format: %v", err))
	}
	if dec.IsNegative() {
		return decimal.Zero, types.NewError(types.ErrInvalidAmount, "amount cannot be negative")
	}
	return dec, nil
}

// ToAtomic converts a display amount into the asset's smallest unit,
// e.g. "5" with 6 decimals becomes "5000000".
func ToAtomic(amount string, decimals int) (string, error) {
	dec, err := ParseAmount(amount)
	if err != nil {
		return "", err
	}
	return dec.Shift(int32(decimals)).Truncate(0).String(), nil
}

// FromAtomic formats an atomic amount back into its decimal display form,
// e.g. "10000" with 6 decimals becomes "0.01".
func FromAtomic(atomic string, decimals int) (string, error) {
	dec, err := decimal.NewFromString(atomic)
	if err != nil {
		return "", types.NewError(types.ErrInvalidAmount,
			fmt.Sprintf("invalid atomic amount: %v", err))
	}
	return dec.Shift(int32(-decimals)).String(), nil
}

// AddAtomic sums two atomic amounts.
func AddAtomic(a, b string) (string, error) {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		return "", types.NewError(types.ErrInvalidAmount, fmt.Sprintf("invalid atomic amount: %q", a))
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		return "", types.NewError(types.ErrInvalidAmount, fmt.Sprintf("invalid atomic amount: %q", b))
	}
	return new(big.Int).Add(x, y).String(), nil
}

// PercentageToBips converts a percentage (e.g. 12.5) to basis points.
func PercentageToBips(percentage float64) int {
	return int(percentage*100 + 0.5)
}

// BipsToPercentage converts basis points back to a percentage.
func BipsToPercentage(bips int) float64 {
	return float64(bips) / 100
}

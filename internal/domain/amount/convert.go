// Package amount converts token amounts between their raw integer
// representation (the smallest indivisible unit, e.g. wei) and a
// human-readable decimal representation, and renders decimals into
// display strings.
//
// All arithmetic goes through arbitrary-precision types (decimal.Decimal
// and big.Int). Binary floating point is never used: raw amounts routinely
// exceed 2^53 and float64 rounding is exactly the class of bug this
// package exists to prevent.
//
// Every function is pure and safe for concurrent use.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount indicates input that cannot be parsed as a finite
// numeric value, or a negative amount where one is not permitted.
var ErrInvalidAmount = errors.New("invalid amount")

// RawToHuman converts a raw integer amount to its human-readable decimal
// value, dividing by 10^decimals. The shift is exact: the result carries
// at most decimals fractional digits and loses no precision. A nil raw
// amount is treated as zero. For decimals == 0 the result equals raw.
func RawToHuman(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, 0).Shift(-int32(decimals))
}

// HumanToRaw parses a human-readable amount string and converts it to the
// raw integer representation, multiplying by 10^decimals and rounding to
// the nearest integer, half away from zero. Inputs with more fractional
// digits than decimals are rounded rather than truncated, so "1.0000005"
// at 6 decimals becomes 1000001, not 1000000.
//
// Returns ErrInvalidAmount if the input is empty, not a parseable number,
// or negative: raw amounts fed to external systems must be non-negative
// integers. Callers holding signed deltas should use DecimalToRaw.
func HumanToRaw(human string, decimals uint8) (*big.Int, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	h, err := decimal.NewFromString(human)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, human)
	}
	if h.IsNegative() {
		return nil, fmt.Errorf("%w: negative value %q", ErrInvalidAmount, human)
	}

	return DecimalToRaw(h, decimals), nil
}

// DecimalToRaw converts a human-readable decimal amount to its raw
// integer representation. Negative values are allowed; the rounding rule
// is the same half-away-from-zero convention as HumanToRaw, so -0.5 raw
// units round to -1.
func DecimalToRaw(h decimal.Decimal, decimals uint8) *big.Int {
	return h.Shift(int32(decimals)).Round(0).BigInt()
}

// Package units defines the monetary unit shared by native value and every
// instrument ledger, with checked uint64 arithmetic.
//
// Amounts are integers in base units; one whole unit is One (10^8 base units).
package units

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// Decimals is the number of fractional digits of every amount.
	Decimals = 8

	// One is a single whole unit expressed in base units.
	One uint64 = 100_000_000

	// BasisPoints is the denominator of basis-point rates.
	BasisPoints uint64 = 10_000
)

var (
	// ErrOverflow indicates an arithmetic result does not fit in uint64.
	ErrOverflow = errors.New("units: arithmetic overflow")

	// ErrUnderflow indicates a subtraction would go below zero.
	ErrUnderflow = errors.New("units: arithmetic underflow")

	// ErrDivideByZero indicates a zero divisor.
	ErrDivideByZero = errors.New("units: division by zero")

	// ErrInvalidAmount indicates a decimal amount string cannot be parsed.
	ErrInvalidAmount = errors.New("units: invalid amount")
)

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns a*b/d, truncating, with a 128-bit intermediate product.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// ApplyBasisPoints returns p + p*bps/10000, truncating the yield.
func ApplyBasisPoints(p, bps uint64) (uint64, error) {
	yield, err := MulDiv(p, bps, BasisPoints)
	if err != nil {
		return 0, err
	}
	return Add(p, yield)
}

// ParseAmount parses a decimal string such as "10.85" into base units.
func ParseAmount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > Decimals {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, Decimals)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	var f uint64
	if frac != "" {
		f, err = strconv.ParseUint(frac+strings.Repeat("0", Decimals-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	base, err := Mul(w, One)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Add(base, f)
}

// FormatAmount renders base units as a decimal string without trailing zeros.
func FormatAmount(v uint64) string {
	whole := v / One
	frac := v % One
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := fmt.Sprintf("%0*d", Decimals, frac)
	return strconv.FormatUint(whole, 10) + "." + strings.TrimRight(fs, "0")
}

package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedArithmetic(t *testing.T) {
	_, err := Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Sub(1, 2)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = Mul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := Mul(3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), v)
}

func TestMulDiv_WideIntermediate(t *testing.T) {
	// The product exceeds 2^64 but the quotient fits.
	v, err := MulDiv(math.MaxUint64, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64/2), v)

	_, err = MulDiv(1, 1, 0)
	assert.ErrorIs(t, err, ErrDivideByZero)

	_, err = MulDiv(math.MaxUint64, math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestApplyBasisPoints(t *testing.T) {
	tests := []struct {
		p, bps, want uint64
	}{
		{10 * One, 850, 1_085_000_000},
		{0, 850, 0},
		{1, 850, 1}, // yield truncates to zero
		{10_000, 1, 10_001},
		{123_456_789, 0, 123_456_789},
	}
	for _, tt := range tests {
		got, err := ApplyBasisPoints(tt.p, tt.bps)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "p=%d bps=%d", tt.p, tt.bps)
	}
}

func TestParseFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		out  string
	}{
		{"10", 10 * One, "10"},
		{"0.8", 80_000_000, "0.8"},
		{"10.85", 1_085_000_000, "10.85"},
		{".5", 50_000_000, "0.5"},
		{"0.00000001", 1, "0.00000001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.out, FormatAmount(got))
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.123456789", "-1", "1e5"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

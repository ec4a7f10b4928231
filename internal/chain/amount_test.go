package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBadAmount = errors.New("bad amount")

func TestParseDecimalAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
		wantErr  bool
	}{
		{"whole number", "1", 18, "1000000000000000000", false},
		{"fraction", "1.5", 18, "1500000000000000000", false},
		{"small fraction", "0.001", 18, "1000000000000000", false},
		{"leading dot", ".5", 18, "500000000000000000", false},
		{"zero", "0", 18, "0", false},
		{"excess precision truncated", "0.1234567890123456789", 18, "123456789012345678", false},
		{"empty", "", 18, "", true},
		{"negative", "-1", 18, "", true},
		{"two dots", "1.2.3", 18, "", true},
		{"letters", "abc", 18, "", true},
		{"letters in fraction", "1.2a", 18, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ParseDecimalAmount(tt.amount, tt.decimals, errBadAmount)
			if tt.wantErr {
				require.ErrorIs(t, err, errBadAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func TestParseHexAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		hex      string
		expected string
		wantErr  bool
	}{
		{"ten ether in wei", "0x8AC7230489E80000", "10000000000000000000", false},
		{"zero", "0x0", "0", false},
		{"one wei", "0x1", "1", false},
		{"missing prefix", "8AC7230489E80000", "", true},
		{"empty", "", "", true},
		{"garbage", "0xzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ParseHexAmount(tt.hex, errBadAmount)
			if tt.wantErr {
				require.ErrorIs(t, err, errBadAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

func TestFormatFixedAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"ten ether", "10000000000000000000", "10.0000"},
		{"one and a half", "1500000000000000000", "1.5000"},
		{"sub-display dust truncated", "1", "0.0000"},
		{"truncates not rounds", "1999950000000000000", "1.9999"},
		{"zero", "0", "0.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			amount, ok := new(big.Int).SetString(tt.amount, 10)
			require.True(t, ok)
			assert.Equal(t, tt.expected, FormatFixedAmount(amount, NativeDecimals))
		})
	}
}

func TestFormatFixedAmountNil(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0000", FormatFixedAmount(nil, NativeDecimals))
	assert.Equal(t, "0.0000", ZeroDisplayAmount())
}

func TestFormatDecimalAmount(t *testing.T) {
	t.Parallel()
	amount, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1.5", FormatDecimalAmount(amount, 18))
	assert.Equal(t, "0", FormatDecimalAmount(nil, 18))
}

package gift

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fargift/fargift/internal/chain"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// wei converts a decimal ether string into base units for test setup.
func wei(t *testing.T, amount string) *big.Int {
	t.Helper()

	parsed, err := chain.ParseDecimalAmount(amount, chain.NativeDecimals, gifterr.ErrInvalidAmount)
	require.NoError(t, err)
	return parsed
}

func TestValidate(t *testing.T) {
	t.Parallel()

	oneEther := wei(t, "1.0")

	tests := []struct {
		name      string
		draft     Draft
		available *big.Int
		wantErr   error
	}{
		{
			name: "valid private gift",
			draft: Draft{
				Recipients: []string{"0x1111111111111111111111111111111111111111"},
				Amount:     "0.5",
			},
			available: oneEther,
		},
		{
			name: "valid public gift with no recipients",
			draft: Draft{
				IsPublic: true,
				Amount:   "0.01",
			},
			available: oneEther,
		},
		{
			name: "private gift with no recipients",
			draft: Draft{
				Amount: "0.01",
			},
			available: oneEther,
			wantErr:   gifterr.ErrNoRecipient,
		},
		{
			name: "private gift with only blank recipients",
			draft: Draft{
				Recipients: []string{"  "},
				Amount:     "0.01",
			},
			available: oneEther,
			wantErr:   gifterr.ErrNoRecipient,
		},
		{
			name: "zero amount",
			draft: Draft{
				IsPublic: true,
				Amount:   "0",
			},
			available: oneEther,
			wantErr:   gifterr.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			draft: Draft{
				IsPublic: true,
				Amount:   "-1",
			},
			available: oneEther,
			wantErr:   gifterr.ErrInvalidAmount,
		},
		{
			name: "non-numeric amount",
			draft: Draft{
				IsPublic: true,
				Amount:   "abc",
			},
			available: oneEther,
			wantErr:   gifterr.ErrInvalidAmount,
		},
		{
			name: "empty amount",
			draft: Draft{
				IsPublic: true,
				Amount:   "",
			},
			available: oneEther,
			wantErr:   gifterr.ErrInvalidAmount,
		},
		{
			name: "amount exceeds balance",
			draft: Draft{
				IsPublic: true,
				Amount:   "2.0",
			},
			available: oneEther,
			wantErr:   gifterr.ErrInsufficientFunds,
		},
		{
			name: "amount exactly equals balance",
			draft: Draft{
				IsPublic: true,
				Amount:   "1.0",
			},
			available: oneEther,
		},
		{
			name: "nil balance treated as zero",
			draft: Draft{
				IsPublic: true,
				Amount:   "0.01",
			},
			available: nil,
			wantErr:   gifterr.ErrInsufficientFunds,
		},
		{
			name: "recipient check runs before amount check",
			draft: Draft{
				Recipients: []string{""},
				Amount:     "not-a-number",
			},
			available: oneEther,
			wantErr:   gifterr.ErrNoRecipient,
		},
		{
			name: "amount check runs before funds check",
			draft: Draft{
				IsPublic: true,
				Amount:   "xyz",
			},
			available: new(big.Int),
			wantErr:   gifterr.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.draft, tt.available)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, gifterr.Is(err, tt.wantErr),
					"expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateInsufficientFundsDetails(t *testing.T) {
	t.Parallel()

	draft := Draft{IsPublic: true, Amount: "2.0"}
	err := Validate(draft, wei(t, "1.0"))
	require.Error(t, err)

	var giftErr *gifterr.GiftError
	require.True(t, gifterr.As(err, &giftErr))
	assert.Equal(t, "2.0000", giftErr.Details["required"])
	assert.Equal(t, "1.0000", giftErr.Details["available"])
}

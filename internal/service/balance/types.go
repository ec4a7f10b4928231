// Package balance fetches and formats native-currency balances through the
// wallet provider capability.
package balance

import (
	"math/big"
	"time"

	"github.com/fargift/fargift/internal/chain"
)

// Amount is a fetched balance in both base units and display form.
// The display form carries exactly four fractional digits, truncated.
type Amount struct {
	Wei     *big.Int
	Display string
}

// Zero returns a zero balance amount.
func Zero() Amount {
	return Amount{
		Wei:     new(big.Int),
		Display: chain.ZeroDisplayAmount(),
	}
}

// IsZero reports whether the amount holds no value.
func (a Amount) IsZero() bool {
	return a.Wei == nil || a.Wei.Sign() == 0
}

// Entry is a cached balance for a single address.
type Entry struct {
	Address   string
	Wei       *big.Int
	Display   string
	UpdatedAt time.Time
}

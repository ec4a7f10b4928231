package gift

import (
	"math/big"
	"strings"

	"github.com/fargift/fargift/internal/chain"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// Validate checks a draft against the available balance. Rules run in a
// fixed order and the first failure wins: recipient presence, amount
// format, sufficient funds. The comparison happens in base units so that
// display rounding can never flip the result.
// Pure: no provider or session access.
func Validate(draft Draft, available *big.Int) error {
	if !draft.IsPublic && !hasRecipient(draft.Recipients) {
		return gifterr.WithSuggestion(
			gifterr.ErrNoRecipient,
			"add a recipient address or mark the gift public",
		)
	}

	amount, err := chain.ParseDecimalAmount(
		strings.TrimSpace(draft.Amount), chain.NativeDecimals, gifterr.ErrInvalidAmount)
	if err != nil {
		return gifterr.WithDetails(
			gifterr.ErrInvalidAmount,
			map[string]string{"amount": draft.Amount},
		)
	}
	if amount.Sign() <= 0 {
		return gifterr.WithDetails(
			gifterr.ErrInvalidAmount,
			map[string]string{"amount": draft.Amount},
		)
	}

	if available == nil {
		available = new(big.Int)
	}
	if amount.Cmp(available) > 0 {
		return gifterr.WithDetails(
			gifterr.ErrInsufficientFunds,
			map[string]string{
				"required":  chain.FormatFixedAmount(amount, chain.NativeDecimals),
				"available": chain.FormatFixedAmount(available, chain.NativeDecimals),
			},
		)
	}

	return nil
}

// hasRecipient reports whether at least one entry is non-blank after trimming.
func hasRecipient(recipients []string) bool {
	for _, r := range recipients {
		if strings.TrimSpace(r) != "" {
			return true
		}
	}
	return false
}

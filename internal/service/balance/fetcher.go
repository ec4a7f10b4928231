package balance

import (
	"context"
	"time"

	"github.com/fargift/fargift/internal/chain"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// Fetcher queries the provider for native-currency balances and converts the
// hex base-unit result to the fixed-point display form.
type Fetcher struct {
	client Client
	cache  *Cache
	log    LogWriter
}

// NewFetcher creates a balance fetcher. A nil cache disables fallback to the
// last known value.
func NewFetcher(client Client, cache *Cache, log LogWriter) *Fetcher {
	return &Fetcher{
		client: client,
		cache:  cache,
		log:    log,
	}
}

// Fetch returns the balance of the address. A provider failure is recoverable:
// the last known value (or zero) is returned together with the error, and the
// caller decides whether to surface it. The session treats it as a warning.
func (f *Fetcher) Fetch(ctx context.Context, address string) (Amount, error) {
	address = chain.NormalizeAddress(address)

	if f.client == nil {
		return f.fallback(address), gifterr.ErrProviderMissing
	}

	hexBalance, err := f.client.BalanceAt(ctx, address)
	if err != nil {
		if f.log != nil {
			f.log.Warn("balance fetch failed for %s: %v", chain.ShortenAddress(address), err)
		}
		return f.fallback(address), gifterr.Wrap(err, "fetching balance")
	}

	wei, err := chain.ParseHexAmount(hexBalance, gifterr.ErrInvalidAmount)
	if err != nil {
		if f.log != nil {
			f.log.Warn("provider returned malformed balance %q for %s", hexBalance, chain.ShortenAddress(address))
		}
		return f.fallback(address), gifterr.Wrap(err, "decoding balance")
	}

	amount := Amount{
		Wei:     wei,
		Display: chain.FormatFixedAmount(wei, chain.NativeDecimals),
	}

	if f.cache != nil {
		f.cache.Set(Entry{
			Address:   address,
			Wei:       wei,
			Display:   amount.Display,
			UpdatedAt: time.Now().UTC(),
		})
	}

	return amount, nil
}

// fallback returns the last known balance for the address, or zero when none
// is cached.
func (f *Fetcher) fallback(address string) Amount {
	if f.cache != nil {
		if entry, ok, _ := f.cache.Get(address); ok {
			return Amount{Wei: entry.Wei, Display: entry.Display}
		}
	}
	return Zero()
}

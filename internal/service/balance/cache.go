package balance

import (
	"sync"
	"time"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/metrics"
)

// DefaultStaleness is the age beyond which a cached balance is considered
// stale for display purposes.
const DefaultStaleness = 5 * time.Minute

// Cache keeps the last known balance per address. It exists so a transient
// provider failure degrades to the previous value instead of blanking the
// display.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache creates an empty balance cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]Entry),
	}
}

// Get returns the cached entry for an address, whether it exists, and its age.
func (c *Cache) Get(address string) (Entry, bool, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[chain.NormalizeAddress(address)]
	if !ok {
		metrics.Global.RecordCacheMiss()
		return Entry{}, false, 0
	}

	metrics.Global.RecordCacheHit()

	return entry, true, time.Since(entry.UpdatedAt)
}

// Set stores an entry, keyed by normalized address.
func (c *Cache) Set(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Address = chain.NormalizeAddress(entry.Address)
	c.entries[entry.Address] = entry
}

// Clear drops all cached balances. Called on chain change, since balances
// are chain-scoped and cannot be carried across a switch.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
}

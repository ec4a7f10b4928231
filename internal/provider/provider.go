// Package provider defines the wallet provider capability consumed by the
// session layer, together with a JSON-RPC implementation and an event
// watcher. The Provider interface is the seam where a browser extension
// would inject its provider object; everything above it only sees this
// contract.
package provider

import "context"

// Event identifies a provider notification stream.
type Event string

// Provider event names.
const (
	EventAccountsChanged Event = "accountsChanged"
	EventChainChanged    Event = "chainChanged"
)

// Notification carries a single provider event.
type Notification struct {
	Event Event

	// Accounts is populated for accountsChanged events. Empty means the
	// provider is locked or site permission was revoked.
	Accounts []string

	// ChainID is the new chain identifier for chainChanged events.
	ChainID string
}

// NotifyFunc receives provider notifications.
type NotifyFunc func(Notification)

// Subscription is an active registration for a provider event.
type Subscription interface {
	// Unsubscribe removes the registration. Safe to call more than once.
	Unsubscribe()
}

// Provider is the wallet provider capability. Implementations must be safe
// for concurrent use.
type Provider interface {
	// RequestAccounts asks the provider for account access. This is the
	// user-interactive path and may be rejected by the user.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Accounts returns the already-authorized accounts without prompting.
	Accounts(ctx context.Context) ([]string, error)

	// BalanceAt returns the native-currency balance of the address as a
	// hex-string base-unit integer, e.g. "0x8ac7230489e80000".
	BalanceAt(ctx context.Context, address string) (string, error)

	// Subscribe registers fn for the given event.
	Subscribe(event Event, fn NotifyFunc) (Subscription, error)
}

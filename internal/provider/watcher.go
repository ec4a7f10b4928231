package provider

import (
	"sync"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

// Handlers receives normalized watcher events.
type Handlers struct {
	// OnAccountsChanged is called with the provider's current account list.
	// An empty list means the wallet locked or revoked access and must be
	// treated as a disconnect, not an error.
	OnAccountsChanged func(accounts []string)

	// OnChainChanged is called when the active chain switches.
	OnChainChanged func()
}

// Watcher subscribes to the provider's account and chain notifications and
// forwards them as two normalized callbacks. Start and Stop are idempotent;
// a failed Start leaves no partial registrations behind.
type Watcher struct {
	provider Provider
	log      LogWriter

	mu     sync.Mutex
	subs   []Subscription
	active bool
}

// NewWatcher creates a watcher for the given provider.
func NewWatcher(p Provider, log LogWriter) *Watcher {
	return &Watcher{provider: p, log: log}
}

// Start registers with the provider. Calling Start while already started is
// a no-op, so a missing Stop cannot leak a duplicate registration.
// Subscription failure is reported once as a watcher-unavailable condition;
// there is no automatic retry.
func (w *Watcher) Start(h Handlers) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active {
		return nil
	}

	if w.provider == nil {
		return gifterr.Wrap(gifterr.ErrWatcherUnavailable, "no provider")
	}

	accountsSub, err := w.provider.Subscribe(EventAccountsChanged, func(n Notification) {
		if h.OnAccountsChanged != nil {
			h.OnAccountsChanged(n.Accounts)
		}
	})
	if err != nil {
		return gifterr.Wrap(gifterr.ErrWatcherUnavailable, "subscribing to account changes")
	}

	chainSub, err := w.provider.Subscribe(EventChainChanged, func(_ Notification) {
		if h.OnChainChanged != nil {
			h.OnChainChanged()
		}
	})
	if err != nil {
		// Do not keep a half-registered watcher around.
		accountsSub.Unsubscribe()
		return gifterr.Wrap(gifterr.ErrWatcherUnavailable, "subscribing to chain changes")
	}

	w.subs = []Subscription{accountsSub, chainSub}
	w.active = true

	if w.log != nil {
		w.log.Debug("watcher started")
	}
	return nil
}

// Stop removes the provider registrations. Safe to call twice and safe to
// call on a watcher that never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.active {
		return
	}

	for _, sub := range w.subs {
		sub.Unsubscribe()
	}
	w.subs = nil
	w.active = false

	if w.log != nil {
		w.log.Debug("watcher stopped")
	}
}

// Active reports whether the watcher currently holds provider registrations.
func (w *Watcher) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

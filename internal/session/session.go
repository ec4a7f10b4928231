// Package session owns the wallet connection state machine: connect,
// disconnect, provider event handling, and the chain-epoch bookkeeping
// that keeps stale balance results from ever reaching the caller.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/provider"
	"github.com/fargift/fargift/internal/service/balance"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// Status is the wallet connection state.
type Status int

// Connection states. Connecting covers the window between the approval
// request and the provider's answer.
const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session. Address is non-empty
// exactly when Status is Connected, and always lowercase.
type State struct {
	Status     Status
	Address    string
	Balance    balance.Amount
	ChainEpoch uint64
}

// Connected reports whether the snapshot holds an active connection.
func (s State) Connected() bool {
	return s.Status == StatusConnected
}

// SubmissionResetter invalidates any in-flight transaction submission.
// Satisfied by gift.Lifecycle.
type SubmissionResetter interface {
	Reset()
}

// LogWriter provides logging operations.
type LogWriter interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Listener receives state snapshots after every state change.
type Listener func(State)

// Options configures a Session. Provider and Fetcher are required for a
// functional session; the rest may be nil.
type Options struct {
	Provider  provider.Provider
	Fetcher   *balance.Fetcher
	Cache     *balance.Cache
	Lifecycle SubmissionResetter
	Log       LogWriter

	// FetchTimeout bounds each background balance fetch.
	FetchTimeout time.Duration
}

const defaultFetchTimeout = 10 * time.Second

// Session is the wallet session state machine. All methods are safe for
// concurrent use; the listener is always invoked outside the session lock.
type Session struct {
	provider  provider.Provider
	fetcher   *balance.Fetcher
	cache     *balance.Cache
	lifecycle SubmissionResetter
	watcher   *provider.Watcher
	log       LogWriter
	timeout   time.Duration

	mu       sync.Mutex
	status   Status
	address  string
	balance  balance.Amount
	epoch    uint64
	listener Listener
}

// New creates a disconnected session.
func New(opts Options) *Session {
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	s := &Session{
		provider:  opts.Provider,
		fetcher:   opts.Fetcher,
		cache:     opts.Cache,
		lifecycle: opts.Lifecycle,
		log:       opts.Log,
		timeout:   timeout,
		balance:   balance.Zero(),
	}
	s.watcher = provider.NewWatcher(opts.Provider, watcherLog{s.log})

	return s
}

// AttachLifecycle registers the submission lifecycle to invalidate on chain
// change. Used when the lifecycle is built after the session because it
// refreshes balances through it.
func (s *Session) AttachLifecycle(l SubmissionResetter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lifecycle = l
}

// SetListener registers the state-change callback. Pass nil to remove it.
func (s *Session) SetListener(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listener = fn
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Connect asks the provider for account access. Calling Connect while
// already Connecting or Connected is a no-op returning the current state,
// so repeated connect attempts never trigger a second approval prompt.
func (s *Session) Connect(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.status != StatusDisconnected {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, nil
	}
	if s.provider == nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, gifterr.ErrProviderMissing
	}
	s.status = StatusConnecting
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return s.abortConnect(), err
	}
	if len(accounts) == 0 {
		return s.abortConnect(), gifterr.Wrap(
			gifterr.ErrConnectionRejected, "provider returned no accounts")
	}

	return s.adopt(accounts[0]), nil
}

// Resume silently adopts an already-authorized account, the startup probe
// that restores a connection without any prompt. No authorized account is
// not an error; the session simply stays disconnected.
func (s *Session) Resume(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.status != StatusDisconnected {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, nil
	}
	if s.provider == nil {
		state := s.snapshotLocked()
		s.mu.Unlock()
		return state, gifterr.ErrProviderMissing
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	accounts, err := s.provider.Accounts(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Debug("connection probe failed: %v", err)
		}
		return state, gifterr.Wrap(err, "probing existing connection")
	}
	if len(accounts) == 0 {
		return state, nil
	}

	return s.adopt(accounts[0]), nil
}

// Disconnect resets the session locally. The provider keeps whatever
// authorization it granted; only this process forgets the connection.
func (s *Session) Disconnect() State {
	s.mu.Lock()
	s.status = StatusDisconnected
	s.address = ""
	s.balance = balance.Zero()
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)

	return state
}

// HandleAccountsChanged applies a provider account change. An empty list
// disconnects the session from any state; a non-empty list adopts the
// first account and refreshes its balance.
func (s *Session) HandleAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		s.mu.Lock()
		alreadyDown := s.status == StatusDisconnected
		s.status = StatusDisconnected
		s.address = ""
		s.balance = balance.Zero()
		state := s.snapshotLocked()
		s.mu.Unlock()

		if !alreadyDown {
			s.notify(state)
		}
		return
	}

	address := chain.NormalizeAddress(accounts[0])

	s.mu.Lock()
	unchanged := s.status == StatusConnected && s.address == address
	s.mu.Unlock()
	if unchanged {
		return
	}

	s.adopt(address)
}

// HandleChainChanged applies a chain switch: the epoch advances, cached
// and displayed balances are dropped, and any in-flight submission result
// is invalidated. A connected session refetches under the new epoch.
func (s *Session) HandleChainChanged() {
	s.mu.Lock()
	s.epoch++
	s.balance = balance.Zero()
	epoch := s.epoch
	address := s.address
	connected := s.status == StatusConnected
	lifecycle := s.lifecycle
	state := s.snapshotLocked()
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.Clear()
	}
	if lifecycle != nil {
		lifecycle.Reset()
	}
	if s.log != nil {
		s.log.Debug("chain changed, epoch now %d", epoch)
	}

	s.notify(state)

	if connected {
		go s.fetchBalance(address, epoch)
	}
}

// RefreshBalance re-reads the balance of the address under the current
// epoch. Used after a successful gift submission.
func (s *Session) RefreshBalance(address string) {
	address = chain.NormalizeAddress(address)

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	s.fetchBalance(address, epoch)
}

// Watch subscribes the session to provider account and chain events.
func (s *Session) Watch() error {
	return s.watcher.Start(provider.Handlers{
		OnAccountsChanged: s.HandleAccountsChanged,
		OnChainChanged:    func() { s.HandleChainChanged() },
	})
}

// Unwatch removes the provider event subscriptions.
func (s *Session) Unwatch() {
	s.watcher.Stop()
}

// adopt transitions to Connected on the given account and starts a tagged
// balance fetch for it.
func (s *Session) adopt(address string) State {
	address = chain.NormalizeAddress(address)

	s.mu.Lock()
	s.status = StatusConnected
	s.address = address
	s.balance = balance.Zero()
	epoch := s.epoch
	state := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(state)

	go s.fetchBalance(address, epoch)

	return state
}

// abortConnect rolls a failed connection attempt back to Disconnected.
// A concurrent event may already have moved the session on; only the
// Connecting state is rolled back.
func (s *Session) abortConnect() State {
	s.mu.Lock()
	changed := s.status == StatusConnecting
	if changed {
		s.status = StatusDisconnected
		s.address = ""
		s.balance = balance.Zero()
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.notify(state)
	}
	return state
}

// fetchBalance reads the balance for (address, epoch) and applies it only
// if the session still shows that address under that epoch. Anything else
// is a stale result and is dropped on the floor.
func (s *Session) fetchBalance(address string, epoch uint64) {
	if s.fetcher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	amount, err := s.fetcher.Fetch(ctx, address)
	if err != nil && s.log != nil {
		// Recoverable: the fetcher already fell back to the last known
		// value or zero.
		s.log.Warn("balance refresh for %s: %v", chain.ShortenAddress(address), err)
	}

	s.mu.Lock()
	if s.epoch != epoch || s.status != StatusConnected || s.address != address {
		s.mu.Unlock()
		if s.log != nil {
			s.log.Debug("discarding stale balance for %s (epoch %d)",
				chain.ShortenAddress(address), epoch)
		}
		return
	}
	s.balance = amount
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) snapshotLocked() State {
	return State{
		Status:     s.status,
		Address:    s.address,
		Balance:    s.balance,
		ChainEpoch: s.epoch,
	}
}

// notify delivers a snapshot to the listener, if any. Never called while
// holding the session lock.
func (s *Session) notify(state State) {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// watcherLog adapts the session log to the provider package's interface
// while tolerating a nil logger.
type watcherLog struct {
	log LogWriter
}

func (w watcherLog) Debug(format string, args ...any) {
	if w.log != nil {
		w.log.Debug(format, args...)
	}
}

func (w watcherLog) Warn(format string, args ...any) {
	if w.log != nil {
		w.log.Warn(format, args...)
	}
}

func (w watcherLog) Error(format string, args ...any) {
	if w.log != nil {
		w.log.Error(format, args...)
	}
}

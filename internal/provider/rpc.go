package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/metrics"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected   = 4001
	codeMethodNotFound = -32601
)

var (
	// ErrRPCRequest indicates an RPC request failed.
	ErrRPCRequest = &gifterr.GiftError{
		Code:     "RPC_REQUEST_FAILED",
		Message:  "RPC request failed",
		ExitCode: gifterr.ExitGeneral,
	}

	// ErrRPCResponse indicates an invalid RPC response.
	ErrRPCResponse = &gifterr.GiftError{
		Code:     "RPC_INVALID_RESPONSE",
		Message:  "invalid RPC response",
		ExitCode: gifterr.ExitGeneral,
	}
)

// ApproveFunc asks the user to approve account access. It is the terminal
// stand-in for the wallet extension's connection popup. A nil ApproveFunc
// grants access without prompting.
type ApproveFunc func(ctx context.Context) bool

// LogWriter is the minimal logging interface the provider needs.
type LogWriter interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Options configures an RPCProvider.
type Options struct {
	HTTPClient   *http.Client
	Limiter      *chain.RateLimiter
	PollInterval time.Duration
	Approve      ApproveFunc
	Logger       LogWriter
}

// defaultPollInterval is used when Options does not set one.
const defaultPollInterval = 2 * time.Second

// RPCProvider implements Provider over Ethereum JSON-RPC. Account and chain
// change notifications are synthesized by polling, since plain HTTP RPC has
// no push channel; the polling cadence is the observable equivalent of the
// extension's event emitter.
type RPCProvider struct {
	url          string
	httpClient   *http.Client
	idCounter    atomic.Uint64
	limiter      *chain.RateLimiter
	approve      ApproveFunc
	log          LogWriter
	pollInterval time.Duration

	mu           sync.Mutex
	subs         map[Event]map[uint64]NotifyFunc
	nextSubID    uint64
	pollCancel   context.CancelFunc
	pollDone     chan struct{}
	lastAccounts []string
	lastChainID  string
	baseline     bool
	closed       bool
}

// NewRPCProvider creates a provider backed by the given RPC endpoint.
// An empty URL means no provider is available at all.
func NewRPCProvider(url string, opts *Options) (*RPCProvider, error) {
	if url == "" {
		return nil, gifterr.WithSuggestion(
			gifterr.ErrProviderMissing,
			"configure an RPC endpoint with 'fargift config set network.rpc <url>' or FARGIFT_RPC",
		)
	}

	if opts == nil {
		opts = &Options{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = chain.DefaultRateLimiter()
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &RPCProvider{
		url:          url,
		httpClient:   httpClient,
		limiter:      limiter,
		approve:      opts.Approve,
		log:          opts.Logger,
		pollInterval: pollInterval,
		subs:         make(map[Event]map[uint64]NotifyFunc),
	}, nil
}

// request represents a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

// response represents a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a JSON-RPC call against the endpoint.
func (p *RPCProvider) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	start := time.Now()
	result, err := p.doCall(ctx, method, params...)
	metrics.Global.RecordRPCCall(time.Since(start), err)

	return result, err
}

func (p *RPCProvider) doCall(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	if err := p.limiter.Wait(ctx, p.url); err != nil {
		return nil, gifterr.Wrap(err, "waiting for rate limiter")
	}

	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      p.idCounter.Add(1),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, gifterr.Wrap(gifterr.ErrNetworkError, "sending RPC request to %s", p.url)
	}
	// Body.Close error is intentionally ignored as it only fails if the
	// connection is already broken, and there's no recovery action.
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, gifterr.Wrap(ErrRPCResponse, "unmarshaling response from %s", p.url)
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	if resp.Result == nil {
		return nil, ErrRPCResponse
	}

	return resp.Result, nil
}

// RequestAccounts implements the user-interactive account request. The
// approval prompt runs before any provider call, mirroring the extension
// popup; endpoints that do not implement eth_requestAccounts fall back to
// the silent account list.
func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if p.approve != nil && !p.approve(ctx) {
		return nil, gifterr.ErrConnectionRejected
	}

	accounts, err := p.accountsVia(ctx, "eth_requestAccounts")
	if err != nil {
		var rpcErr *rpcError
		switch {
		case gifterr.As(err, &rpcErr) && rpcErr.Code == codeUserRejected:
			return nil, gifterr.ErrConnectionRejected
		case gifterr.As(err, &rpcErr) && rpcErr.Code == codeMethodNotFound:
			// Plain nodes have no interactive flow; the approval prompt
			// above already covered consent.
			return p.Accounts(ctx)
		default:
			return nil, gifterr.Wrap(err, "requesting accounts")
		}
	}
	return accounts, nil
}

// Accounts returns the authorized accounts without any prompt.
func (p *RPCProvider) Accounts(ctx context.Context) ([]string, error) {
	accounts, err := p.accountsVia(ctx, "eth_accounts")
	if err != nil {
		return nil, gifterr.Wrap(err, "listing accounts")
	}
	return accounts, nil
}

func (p *RPCProvider) accountsVia(ctx context.Context, method string) ([]string, error) {
	result, err := p.call(ctx, method)
	if err != nil {
		return nil, err
	}

	var accounts []string
	if err := json.Unmarshal(result, &accounts); err != nil {
		return nil, gifterr.Wrap(ErrRPCResponse, "decoding account list")
	}
	return accounts, nil
}

// BalanceAt returns the hex-string wei balance of the address.
func (p *RPCProvider) BalanceAt(ctx context.Context, address string) (string, error) {
	result, err := p.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return "", gifterr.Wrap(err, "fetching balance for %s", chain.ShortenAddress(address))
	}

	var balance string
	if err := json.Unmarshal(result, &balance); err != nil {
		return "", gifterr.Wrap(ErrRPCResponse, "decoding balance")
	}
	return balance, nil
}

// ChainID returns the current chain identifier as a hex string.
func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	result, err := p.call(ctx, "eth_chainId")
	if err != nil {
		return "", gifterr.Wrap(err, "fetching chain ID")
	}

	var chainID string
	if err := json.Unmarshal(result, &chainID); err != nil {
		return "", gifterr.Wrap(ErrRPCResponse, "decoding chain ID")
	}
	return chainID, nil
}

// rpcSubscription is a handle for one registered NotifyFunc.
type rpcSubscription struct {
	p     *RPCProvider
	event Event
	id    uint64
	once  sync.Once
}

// Unsubscribe removes the registration. Idempotent.
func (s *rpcSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.p.removeSubscription(s.event, s.id)
	})
}

// Subscribe registers fn for the given event and starts the poll loop on the
// first registration.
func (p *RPCProvider) Subscribe(event Event, fn NotifyFunc) (Subscription, error) {
	if event != EventAccountsChanged && event != EventChainChanged {
		return nil, gifterr.WithDetails(
			gifterr.ErrInvalidInput,
			map[string]string{"event": string(event)},
		)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, gifterr.ErrWatcherUnavailable
	}

	p.nextSubID++
	id := p.nextSubID
	if p.subs[event] == nil {
		p.subs[event] = make(map[uint64]NotifyFunc)
	}
	p.subs[event][id] = fn

	if p.pollCancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.pollCancel = cancel
		p.pollDone = make(chan struct{})
		go p.pollLoop(ctx, p.pollDone)
	}

	return &rpcSubscription{p: p, event: event, id: id}, nil
}

func (p *RPCProvider) removeSubscription(event Event, id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.subs[event], id)

	// Stop polling once nobody is listening.
	total := 0
	for _, m := range p.subs {
		total += len(m)
	}
	if total == 0 && p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
		p.pollDone = nil
	}
}

// Close stops the poll loop and rejects further subscriptions.
func (p *RPCProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.pollCancel != nil {
		p.pollCancel()
		p.pollCancel = nil
		p.pollDone = nil
	}
}

// pollLoop synthesizes accountsChanged/chainChanged notifications from
// periodic eth_accounts/eth_chainId reads. The first successful read only
// establishes the baseline; no event fires for it.
func (p *RPCProvider) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *RPCProvider) pollOnce(ctx context.Context) {
	accounts, accErr := p.Accounts(ctx)
	chainID, chainErr := p.ChainID(ctx)
	if accErr != nil || chainErr != nil {
		if p.log != nil {
			p.log.Warn("provider poll failed: accounts=%v chain=%v", accErr, chainErr)
		}
		return
	}

	p.mu.Lock()
	if !p.baseline {
		p.lastAccounts = accounts
		p.lastChainID = chainID
		p.baseline = true
		p.mu.Unlock()
		return
	}

	accountsChanged := !slices.Equal(accounts, p.lastAccounts)
	chainChanged := chainID != p.lastChainID
	p.lastAccounts = accounts
	p.lastChainID = chainID

	var accountFns, chainFns []NotifyFunc
	if accountsChanged {
		for _, fn := range p.subs[EventAccountsChanged] {
			accountFns = append(accountFns, fn)
		}
	}
	if chainChanged {
		for _, fn := range p.subs[EventChainChanged] {
			chainFns = append(chainFns, fn)
		}
	}
	p.mu.Unlock()

	// Dispatch outside the lock so handlers may re-enter the provider.
	for _, fn := range accountFns {
		fn(Notification{Event: EventAccountsChanged, Accounts: accounts})
	}
	for _, fn := range chainFns {
		fn(Notification{Event: EventChainChanged, ChainID: chainID})
	}
}

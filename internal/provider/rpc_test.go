package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fargift/fargift/internal/chain"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// fakeNode is a scriptable JSON-RPC endpoint for provider tests.
type fakeNode struct {
	mu       sync.Mutex
	accounts []string
	chainID  string
	errs     map[string]*rpcError
	calls    map[string]int
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		accounts: []string{"0xAAA0000000000000000000000000000000000001"},
		chainID:  "0x1",
		errs:     make(map[string]*rpcError),
		calls:    make(map[string]int),
	}
}

func (n *fakeNode) setAccounts(accounts []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accounts = accounts
}

func (n *fakeNode) setChainID(chainID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = chainID
}

func (n *fakeNode) callCount(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func (n *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		n.mu.Lock()
		n.calls[req.Method]++
		rpcErr := n.errs[req.Method]
		accounts := append([]string(nil), n.accounts...)
		chainID := n.chainID
		n.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = map[string]any{"code": rpcErr.Code, "message": rpcErr.Message}
		} else {
			switch req.Method {
			case "eth_accounts", "eth_requestAccounts":
				resp["result"] = accounts
			case "eth_chainId":
				resp["result"] = chainID
			case "eth_getBalance":
				resp["result"] = "0x8ac7230489e80000"
			default:
				resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestProvider(t *testing.T, node *fakeNode, opts *Options) *RPCProvider {
	t.Helper()
	srv := httptest.NewServer(node.handler())
	t.Cleanup(srv.Close)

	if opts == nil {
		opts = &Options{}
	}
	if opts.Limiter == nil {
		opts.Limiter = chain.NewRateLimiter(1000, 1000)
	}

	p, err := NewRPCProvider(srv.URL, opts)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestNewRPCProviderMissingURL(t *testing.T) {
	t.Parallel()
	_, err := NewRPCProvider("", nil)
	require.ErrorIs(t, err, gifterr.ErrProviderMissing)
}

func TestRequestAccounts(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, nil)

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0xAAA0000000000000000000000000000000000001"}, accounts)
}

func TestRequestAccountsApprovalDeclined(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, &Options{
		Approve: func(context.Context) bool { return false },
	})

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, gifterr.ErrConnectionRejected)
	// Declining the prompt must short-circuit before any provider call
	assert.Zero(t, node.callCount("eth_requestAccounts"))
}

func TestRequestAccountsProviderRejects(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	node.errs["eth_requestAccounts"] = &rpcError{Code: codeUserRejected, Message: "User rejected the request."}
	p := newTestProvider(t, node, nil)

	_, err := p.RequestAccounts(context.Background())
	require.ErrorIs(t, err, gifterr.ErrConnectionRejected)
}

func TestRequestAccountsFallsBackToSilentList(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	node.errs["eth_requestAccounts"] = &rpcError{Code: codeMethodNotFound, Message: "method not found"}
	p := newTestProvider(t, node, &Options{
		Approve: func(context.Context) bool { return true },
	})

	accounts, err := p.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0xAAA0000000000000000000000000000000000001"}, accounts)
	assert.Equal(t, 1, node.callCount("eth_accounts"))
}

func TestBalanceAt(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, nil)

	balance, err := p.BalanceAt(context.Background(), "0xAAA0000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "0x8ac7230489e80000", balance)
}

func TestChainID(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, nil)

	chainID, err := p.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x1", chainID)
}

func TestCallNetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // closed server: connection refused

	p, err := NewRPCProvider(srv.URL, &Options{Limiter: chain.NewRateLimiter(1000, 1000)})
	require.NoError(t, err)

	_, err = p.BalanceAt(context.Background(), "0xAAA0000000000000000000000000000000000001")
	require.ErrorIs(t, err, gifterr.ErrNetworkError)
}

func TestSubscribeUnknownEvent(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, nil)

	_, err := p.Subscribe(Event("bogus"), func(Notification) {})
	require.ErrorIs(t, err, gifterr.ErrInvalidInput)
}

func TestPollingEmitsAccountsChanged(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, &Options{PollInterval: 10 * time.Millisecond})

	notifications := make(chan Notification, 8)
	sub, err := p.Subscribe(EventAccountsChanged, func(n Notification) {
		notifications <- n
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// Baseline poll must not emit an event
	select {
	case n := <-notifications:
		t.Fatalf("unexpected notification before any change: %+v", n)
	case <-time.After(50 * time.Millisecond):
	}

	node.setAccounts([]string{"0xBBB0000000000000000000000000000000000002"})

	select {
	case n := <-notifications:
		assert.Equal(t, EventAccountsChanged, n.Event)
		assert.Equal(t, []string{"0xBBB0000000000000000000000000000000000002"}, n.Accounts)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accountsChanged")
	}
}

func TestPollingEmitsChainChanged(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, &Options{PollInterval: 10 * time.Millisecond})

	notifications := make(chan Notification, 8)
	sub, err := p.Subscribe(EventChainChanged, func(n Notification) {
		notifications <- n
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// Allow the baseline poll to land first
	time.Sleep(50 * time.Millisecond)
	node.setChainID("0xaa36a7")

	select {
	case n := <-notifications:
		assert.Equal(t, EventChainChanged, n.Event)
		assert.Equal(t, "0xaa36a7", n.ChainID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chainChanged")
	}
}

func TestUnsubscribeIdempotent(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, &Options{PollInterval: 10 * time.Millisecond})

	sub, err := p.Subscribe(EventAccountsChanged, func(Notification) {})
	require.NoError(t, err)

	sub.Unsubscribe()
	sub.Unsubscribe() // second call must be safe
}

func TestSubscribeAfterClose(t *testing.T) {
	t.Parallel()
	node := newFakeNode()
	p := newTestProvider(t, node, nil)
	p.Close()

	_, err := p.Subscribe(EventAccountsChanged, func(Notification) {})
	require.ErrorIs(t, err, gifterr.ErrWatcherUnavailable)
}

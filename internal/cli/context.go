package cli

import (
	"time"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/config"
	"github.com/fargift/fargift/internal/output"
	"github.com/fargift/fargift/internal/provider"
	"github.com/fargift/fargift/internal/service/balance"
	"github.com/fargift/fargift/internal/service/gift"
	"github.com/fargift/fargift/internal/session"
)

// CommandContext holds the wired dependencies for session-backed commands:
// the provider connection, the session state machine, and the gift services
// built on top of them.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter

	Provider  *provider.RPCProvider
	Session   *session.Session
	Cache     *balance.Cache
	Fetcher   *balance.Fetcher
	Gateway   gift.Gateway
	Gifts     *gift.Service
	Lifecycle *gift.Lifecycle
}

// newCommandContext wires a provider and session from the global config.
// The approve callback handles the interactive account-access consent; pass
// nil for commands that must never prompt.
func newCommandContext(approve provider.ApproveFunc) (*CommandContext, error) {
	rpcURL := config.SanitizeURL(cfg.GetRPC())

	p, err := provider.NewRPCProvider(rpcURL, &provider.Options{
		Limiter:      providerLimiter(cfg),
		PollInterval: time.Duration(cfg.Provider.PollIntervalMS) * time.Millisecond,
		Approve:      approve,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	cache := balance.NewCache()
	fetcher := balance.NewFetcher(p, cache, logger)

	gateway := gift.NewMemoryGateway()
	gifts := gift.NewService(gateway, logger)

	ctx := &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Formatter: formatter,
		Provider:  p,
		Cache:     cache,
		Fetcher:   fetcher,
		Gateway:   gateway,
		Gifts:     gifts,
	}

	ctx.Session = session.New(session.Options{
		Provider: p,
		Fetcher:  fetcher,
		Cache:    cache,
		Log:      logger,
	})
	ctx.Lifecycle = gift.NewLifecycle(gateway, ctx.Session.RefreshBalance, logger)
	ctx.Session.AttachLifecycle(ctx.Lifecycle)

	return ctx, nil
}

// Close releases the provider connection.
func (c *CommandContext) Close() {
	if c.Provider != nil {
		c.Provider.Close()
	}
}

// providerLimiter builds the shared request limiter from config, falling
// back to the defaults on nonsensical values.
func providerLimiter(cfg *config.Config) *chain.RateLimiter {
	if cfg.Provider.RatePerSecond <= 0 || cfg.Provider.RateBurst <= 0 {
		return chain.DefaultRateLimiter()
	}
	return chain.NewRateLimiter(cfg.Provider.RatePerSecond, cfg.Provider.RateBurst)
}

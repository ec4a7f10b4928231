package balance

import "context"

// Client is the provider surface the fetcher needs.
// Satisfied by provider.Provider.
type Client interface {
	BalanceAt(ctx context.Context, address string) (string, error)
}

// LogWriter provides logging operations.
type LogWriter interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

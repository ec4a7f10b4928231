package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/session"
)

// sessionCmd is the parent command for session operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and watch the wallet session",
	Long: `Inspect the wallet session and watch provider events.

The session reflects the wallet provider's state: which account is
connected, its balance, and a chain epoch that advances every time the
active chain switches.`,
}

// sessionShowCmd prints the current session state.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the current session state",
	Example: `  fargift session show`,
	RunE:    runSessionShow,
}

// sessionWatchCmd streams account and chain events.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch account and chain events until interrupted",
	Long: `Subscribe to the provider's account and chain notifications and print
every session state change. An account switch in the wallet shows up as a
new address; locking the wallet shows up as a disconnect; a chain switch
clears the balance and advances the epoch.

Stop with Ctrl-C.`,
	Example: `  fargift session watch`,
	RunE:    runSessionWatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionWatchCmd)
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	state, err := cmdCtx.Session.Resume(cmd.Context())
	if err != nil {
		return err
	}

	// Give the balance fetch a moment to land so show is useful.
	if state.Connected() {
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			state = cmdCtx.Session.State()
			if !state.Balance.IsZero() {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, connectionJSON(state))
	}

	out(w, "Status:  %s\n", state.Status)
	if state.Connected() {
		out(w, "Address: %s\n", state.Address)
		out(w, "Balance: %s ETH\n", state.Balance.Display)
	}
	out(w, "Epoch:   %d\n", state.ChainEpoch)

	return nil
}

func runSessionWatch(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()

	cmdCtx.Session.SetListener(func(state session.State) {
		if formatter.IsJSON() {
			_ = writeJSON(w, connectionJSON(state))
			return
		}

		switch {
		case state.Connected():
			out(w, "%s  connected %s  balance %s  epoch %d\n",
				time.Now().Format(time.TimeOnly),
				chain.ShortenAddress(state.Address),
				state.Balance.Display,
				state.ChainEpoch)
		default:
			out(w, "%s  %s  epoch %d\n",
				time.Now().Format(time.TimeOnly),
				state.Status,
				state.ChainEpoch)
		}
	})

	if _, err := cmdCtx.Session.Resume(ctx); err != nil {
		logger.Warn("session watch started without a connection: %v", err)
	}

	if err := cmdCtx.Session.Watch(); err != nil {
		return err
	}
	defer cmdCtx.Session.Unwatch()

	if !formatter.IsJSON() {
		outln(w, "Watching wallet events (Ctrl-C to stop)")
	}

	<-ctx.Done()
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/output"
	"github.com/fargift/fargift/internal/service/balance"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// balanceCmd shows the native-currency balance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show a wallet balance",
	Long: `Show the native-currency balance of an address.

Without an argument, the balance of the connected account is shown; this
requires an already-authorized wallet. The value always carries four
fractional digits, truncated, never rounded.

Example:
  fargift balance
  fargift balance 0x1111111111111111111111111111111111111111`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBalance,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	var address string
	if len(args) == 1 {
		address = chain.NormalizeAddress(args[0])
		if err := chain.ValidateAddress(address); err != nil {
			return err
		}
	} else {
		state, err := cmdCtx.Session.Resume(cmd.Context())
		if err != nil {
			return err
		}
		if !state.Connected() {
			return gifterr.WithSuggestion(
				gifterr.ErrNotConnected,
				"run 'fargift connect' first, or pass an address explicitly",
			)
		}
		address = state.Address
	}

	amount, err := cmdCtx.Fetcher.Fetch(cmd.Context(), address)
	if err != nil {
		// Recoverable: show the fallback value but flag the failure.
		logger.Warn("balance command degraded to last known value: %v", err)
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, struct {
			Address string `json:"address"`
			Balance string `json:"balance"`
			Wei     string `json:"wei,omitempty"`
			Stale   bool   `json:"stale,omitempty"`
		}{
			Address: address,
			Balance: amount.Display,
			Wei:     weiString(amount),
			Stale:   err != nil,
		})
	}

	out(w, "%s  %s ETH\n", chain.ShortenAddress(address), amount.Display)
	if err != nil {
		output.Warn(w, "provider unreachable, showing last known value")
	}

	return nil
}

// weiString renders the base-unit value for JSON output.
func weiString(a balance.Amount) string {
	if a.Wei == nil {
		return ""
	}
	return a.Wei.String()
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/output"
	"github.com/fargift/fargift/internal/session"
)

// connectCmd connects the wallet session.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a wallet",
	Long: `Connect to the configured wallet provider and select an account.

Without --resume, the provider asks for account access and you confirm at
the terminal. With --resume, only an already-authorized account is adopted
and no prompt is ever shown; an unauthorized wallet simply stays
disconnected.

Example:
  fargift connect
  fargift connect --resume
  fargift connect --qr`,
	RunE: runConnect,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	connectResume bool
	connectQR     bool
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().BoolVar(&connectResume, "resume", false, "adopt an already-authorized account without prompting")
	connectCmd.Flags().BoolVar(&connectQR, "qr", false, "show the connected address as a QR code")
}

func runConnect(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := newCommandContext(promptApproval)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	var state session.State
	if connectResume {
		state, err = cmdCtx.Session.Resume(cmd.Context())
	} else {
		// Resume first so an already-authorized wallet never re-prompts.
		state, err = cmdCtx.Session.Resume(cmd.Context())
		if err == nil && !state.Connected() {
			state, err = cmdCtx.Session.Connect(cmd.Context())
		}
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, connectionJSON(state))
	}

	if !state.Connected() {
		output.Info(w, "Not connected")
		outln(w, "Run 'fargift connect' from an interactive terminal to authorize access.")
		return nil
	}

	output.Successf(w, "Connected %s", chain.ShortenAddress(state.Address))
	out(w, "Address:  %s\n", state.Address)
	out(w, "Explorer: %s\n", chain.ExplorerAddressURL(cfg.GetExplorer(), state.Address))

	if connectQR {
		outln(w)
		output.Infof(w, "Scan to share %s", chain.ShortenAddress(state.Address))
		if err := output.RenderQR(w, state.Address, output.DefaultQRConfig()); err != nil {
			return err
		}
	}

	return nil
}

// connectionJSON is the JSON shape shared by connect and session show.
func connectionJSON(state session.State) any {
	return struct {
		Status     string `json:"status"`
		Address    string `json:"address,omitempty"`
		Balance    string `json:"balance,omitempty"`
		ChainEpoch uint64 `json:"chain_epoch"`
	}{
		Status:     state.Status.String(),
		Address:    state.Address,
		Balance:    state.Balance.Display,
		ChainEpoch: state.ChainEpoch,
	}
}

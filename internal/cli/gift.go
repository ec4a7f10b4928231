package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/output"
	"github.com/fargift/fargift/internal/service/gift"
	"github.com/fargift/fargift/internal/session"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// giftCmd is the parent command for gift operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftCmd = &cobra.Command{
	Use:   "gift",
	Short: "Create, list, and unwrap gifts",
	Long:  `Create new gifts, browse visible ones, and unwrap gifts sent to you.`,
}

// giftCreateCmd creates a gift.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a gift",
	Long: `Create a gift for one or more recipients, or a public gift anyone
can claim.

The draft is validated before anything is submitted: a private gift needs
at least one recipient, the amount must be a positive number, and it may
not exceed the connected account's balance. Validation compares amounts in
base units, so display rounding can never let an overdraft through.

Example:
  fargift gift create --to 0x... --amount 0.5 --title "Happy birthday"
  fargift gift create --public --amount 0.1 --message "first come, first served"
  fargift gift create --to 0x... --amount 1 --dry-run`,
	RunE: runGiftCreate,
}

// giftListCmd lists visible gifts.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gifts visible to the connected account",
	Long: `List public gifts and gifts sent by or addressed to the connected
account.

Example:
  fargift gift list
  fargift gift list -o json`,
	RunE: runGiftList,
}

// giftUnwrapCmd claims a gift.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var giftUnwrapCmd = &cobra.Command{
	Use:   "unwrap <gift-id>",
	Short: "Unwrap a gift",
	Long: `Unwrap (claim) a gift by its ID.

Public gifts can be unwrapped by anyone; private gifts only by their
recipient. Only active gifts can be unwrapped.

Example:
  fargift gift unwrap 42`,
	Args: cobra.ExactArgs(1),
	RunE: runGiftUnwrap,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	giftTo      []string
	giftPublic  bool
	giftAmount  string
	giftTitle   string
	giftMessage string
	giftYes     bool
	giftDryRun  bool
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(giftCmd)
	giftCmd.AddCommand(giftCreateCmd)
	giftCmd.AddCommand(giftListCmd)
	giftCmd.AddCommand(giftUnwrapCmd)

	giftCreateCmd.Flags().StringArrayVar(&giftTo, "to", nil, "recipient address (repeatable)")
	giftCreateCmd.Flags().BoolVar(&giftPublic, "public", false, "make the gift claimable by anyone")
	giftCreateCmd.Flags().StringVar(&giftAmount, "amount", "", "gift amount in ETH, e.g. 0.5")
	giftCreateCmd.Flags().StringVar(&giftTitle, "title", "", "gift title")
	giftCreateCmd.Flags().StringVar(&giftMessage, "message", "", "message shown to the recipient")
	giftCreateCmd.Flags().BoolVarP(&giftYes, "yes", "y", false, "skip the confirmation prompt")
	giftCreateCmd.Flags().BoolVar(&giftDryRun, "dry-run", false, "validate and show the gift without submitting")
}

func runGiftCreate(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	state, err := connectedState(cmd, cmdCtx)
	if err != nil {
		return err
	}

	draft := gift.Draft{
		Recipients: giftTo,
		IsPublic:   giftPublic,
		Amount:     giftAmount,
		Title:      giftTitle,
		Message:    giftMessage,
	}

	// Recipient addresses must be well-formed before the draft rules run.
	if !draft.IsPublic {
		for _, recipient := range draft.Recipients {
			recipient = strings.TrimSpace(recipient)
			if recipient == "" {
				continue
			}
			if err := chain.ValidateAddress(recipient); err != nil {
				return err
			}
		}
	}

	available, fetchErr := cmdCtx.Fetcher.Fetch(cmd.Context(), state.Address)
	if fetchErr != nil {
		logger.Warn("validating against last known balance: %v", fetchErr)
		output.Warnf(cmd.ErrOrStderr(),
			"balance refresh failed, validating against %s ETH", available.Display)
	}

	if err := gift.Validate(draft, available.Wei); err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if giftDryRun {
		return printDryRun(w, draft, state)
	}

	if !giftYes {
		summary := fmt.Sprintf("Send a %s ETH gift from %s?",
			strings.TrimSpace(draft.Amount), chain.ShortenAddress(state.Address))
		if !promptConfirm(summary) {
			return gifterr.ErrUserRejected
		}
	}

	record, err := cmdCtx.Lifecycle.Submit(cmd.Context(), draft, state.Address)
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return writeJSON(w, struct {
			Status      string    `json:"status"`
			TxID        string    `json:"tx_id"`
			Explorer    string    `json:"explorer"`
			SubmittedAt time.Time `json:"submitted_at"`
		}{
			Status:      record.Status.String(),
			TxID:        record.TxID,
			Explorer:    chain.ExplorerTxURL(cfg.GetExplorer(), record.TxID),
			SubmittedAt: record.SubmittedAt,
		})
	}

	output.Success(w, "Gift created")
	out(w, "Transaction: %s\n", record.TxID)
	out(w, "Explorer:    %s\n", chain.ExplorerTxURL(cfg.GetExplorer(), record.TxID))

	return nil
}

func runGiftList(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	state, err := connectedState(cmd, cmdCtx)
	if err != nil {
		return err
	}

	gifts, err := cmdCtx.Gifts.List(cmd.Context(), state.Address)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, giftListJSON(gifts))
	}

	if len(gifts) == 0 {
		outln(w, "No gifts visible to", chain.ShortenAddress(state.Address))
		return nil
	}

	table := output.NewTable("ID", "FROM", "TO", "AMOUNT", "STATUS", "TITLE")
	for _, g := range gifts {
		recipient := "anyone"
		if !g.IsPublic {
			recipient = chain.ShortenAddress(g.Recipient)
		}
		table.AddRow(
			g.ID,
			chain.ShortenAddress(g.Sender),
			recipient,
			g.Amount,
			g.Status.Label(),
			g.Title,
		)
	}

	return table.Render(w)
}

func runGiftUnwrap(cmd *cobra.Command, args []string) error {
	cmdCtx, err := newCommandContext(nil)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	state, err := connectedState(cmd, cmdCtx)
	if err != nil {
		return err
	}

	txID, err := cmdCtx.Gifts.Unwrap(cmd.Context(), args[0], state.Address)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if formatter.IsJSON() {
		return writeJSON(w, struct {
			GiftID   string `json:"gift_id"`
			TxID     string `json:"tx_id"`
			Explorer string `json:"explorer"`
		}{
			GiftID:   strings.TrimSpace(args[0]),
			TxID:     txID,
			Explorer: chain.ExplorerTxURL(cfg.GetExplorer(), txID),
		})
	}

	output.Successf(w, "Gift %s unwrapped", strings.TrimSpace(args[0]))
	out(w, "Transaction: %s\n", txID)

	return nil
}

// connectedState silently resumes the session and fails with a
// not-connected error if no account is authorized.
func connectedState(cmd *cobra.Command, cmdCtx *CommandContext) (session.State, error) {
	state, err := cmdCtx.Session.Resume(cmd.Context())
	if err != nil {
		return state, err
	}
	if !state.Connected() {
		return state, gifterr.WithSuggestion(
			gifterr.ErrNotConnected,
			"run 'fargift connect' to authorize an account",
		)
	}
	return state, nil
}

func printDryRun(w io.Writer, draft gift.Draft, state session.State) error {
	if formatter.IsJSON() {
		return writeJSON(w, struct {
			DryRun     bool     `json:"dry_run"`
			Sender     string   `json:"sender"`
			Recipients []string `json:"recipients,omitempty"`
			Public     bool     `json:"public"`
			Amount     string   `json:"amount"`
			Title      string   `json:"title,omitempty"`
			Message    string   `json:"message,omitempty"`
		}{
			DryRun:     true,
			Sender:     state.Address,
			Recipients: draft.Recipients,
			Public:     draft.IsPublic,
			Amount:     strings.TrimSpace(draft.Amount),
			Title:      draft.Title,
			Message:    draft.Message,
		})
	}

	output.Info(w, "Dry run: gift is valid, nothing was submitted")
	out(w, "  Sender:  %s\n", state.Address)
	if draft.IsPublic {
		outln(w, "  To:      anyone (public)")
	} else {
		out(w, "  To:      %s\n", strings.Join(draft.Recipients, ", "))
	}
	out(w, "  Amount:  %s ETH\n", strings.TrimSpace(draft.Amount))
	if draft.Title != "" {
		out(w, "  Title:   %s\n", draft.Title)
	}
	if draft.Message != "" {
		out(w, "  Message: %s\n", draft.Message)
	}

	return nil
}

// giftListJSON converts gifts into the JSON list shape.
func giftListJSON(gifts []gift.Gift) any {
	type entry struct {
		ID        string    `json:"id"`
		Sender    string    `json:"sender"`
		Recipient string    `json:"recipient,omitempty"`
		Public    bool      `json:"public"`
		Amount    string    `json:"amount"`
		Status    string    `json:"status"`
		Label     string    `json:"label"`
		Title     string    `json:"title,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	entries := make([]entry, len(gifts))
	for i, g := range gifts {
		entries[i] = entry{
			ID:        g.ID,
			Sender:    g.Sender,
			Recipient: g.Recipient,
			Public:    g.IsPublic,
			Amount:    g.Amount,
			Status:    string(g.Status),
			Label:     g.Status.Label(),
			Title:     g.Title,
			CreatedAt: g.CreatedAt,
		}
	}

	return struct {
		Gifts []entry `json:"gifts"`
	}{Gifts: entries}
}

package cli

import (
	"bufio"
	"context"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptApproval asks the user to grant account access. It is the terminal
// equivalent of the wallet extension's connection popup. Non-interactive
// runs (no TTY on stdin) decline, so scripts cannot silently approve.
func promptApproval(_ context.Context) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
		outln(os.Stderr, "account access requires an interactive terminal")
		return false
	}

	out(os.Stderr, "Allow fargift to view your wallet accounts? [y/N]: ")
	return readYes()
}

// promptConfirm asks a yes/no question before an irreversible action.
func promptConfirm(question string) bool {
	out(os.Stderr, "%s [y/N]: ", question)
	return readYes()
}

// readYes reads one line from stdin and interprets it as consent.
func readYes() bool {
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}

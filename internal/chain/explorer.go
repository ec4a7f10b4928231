package chain

import "strings"

// DefaultExplorerURL is the default block explorer base for the target network.
const DefaultExplorerURL = "https://etherscan.io"

// ExplorerTxURL builds a viewer URL for a transaction identifier on the
// configured explorer. An empty base falls back to the default explorer.
func ExplorerTxURL(base, txID string) string {
	if base == "" {
		base = DefaultExplorerURL
	}
	return strings.TrimRight(base, "/") + "/tx/" + txID
}

// ExplorerAddressURL builds a viewer URL for an account address.
func ExplorerAddressURL(base, address string) string {
	if base == "" {
		base = DefaultExplorerURL
	}
	return strings.TrimRight(base, "/") + "/address/" + address
}

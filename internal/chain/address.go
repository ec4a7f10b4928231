package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

// NormalizeAddress lowercases an account address so that equality checks are
// case-insensitive. Provider responses may mix checksum and plain casing for
// the same account; normalization happens once at ingestion.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidateAddress checks that an address is a well-formed hex account address.
func ValidateAddress(address string) error {
	if !common.IsHexAddress(strings.TrimSpace(address)) {
		return gifterr.WithDetails(
			gifterr.ErrInvalidAddress,
			map[string]string{"address": address},
		)
	}
	return nil
}

// ShortenAddress returns the abbreviated display form of an address,
// e.g. "0x1234...abcd". Addresses too short to abbreviate are returned as-is.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

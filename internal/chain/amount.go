// Package chain provides conversion and formatting utilities for
// base-unit chain amounts and their fixed-point display values.
package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NativeDecimals is the decimal scale of the native currency base unit (wei).
const NativeDecimals = 18

// DisplayDigits is the number of fractional digits shown for balances.
const DisplayDigits = 4

// ParseDecimalAmount parses a decimal amount string to big.Int with the given decimal places.
// For example, "1.5" with 18 decimals returns 1500000000000000000.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseDecimalAmount(amount string, decimalPlaces int, invalidAmountErr error) (*big.Int, error) {
	if amount == "" {
		return nil, invalidAmountErr
	}

	// Check for negative amounts
	if strings.HasPrefix(amount, "-") {
		return nil, invalidAmountErr
	}

	// Split by decimal point
	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, invalidAmountErr
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	// Validate integer part
	if intPart == "" {
		intPart = "0"
	}
	for _, c := range intPart {
		if c < '0' || c > '9' {
			return nil, invalidAmountErr
		}
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, invalidAmountErr
	}

	// Scale integer part
	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimalPlaces)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	// Handle decimal part
	if decPart != "" {
		// Validate decimal characters
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, invalidAmountErr
			}
		}

		// Pad or truncate decimal part
		for len(decPart) < decimalPlaces {
			decPart += "0"
		}
		decPart = decPart[:decimalPlaces]

		decVal, ok := new(big.Int).SetString(decPart, 10)
		if !ok {
			return nil, invalidAmountErr
		}

		result = result.Add(result, decVal)
	}

	return result, nil
}

// ParseHexAmount parses a provider hex-string base-unit integer (e.g. the
// result of eth_getBalance) into a big.Int.
func ParseHexAmount(hexAmount string, invalidAmountErr error) (*big.Int, error) {
	value, err := hexutil.DecodeBig(hexAmount)
	if err != nil {
		return nil, invalidAmountErr
	}
	if value.Sign() < 0 {
		return nil, invalidAmountErr
	}
	return value, nil
}

// FormatFixedAmount converts a big.Int base-unit amount to a display string
// with exactly DisplayDigits fractional digits. Excess precision is truncated,
// never rounded, so the shown value never overstates the balance.
// For example, 10000000000000000000 with 18 decimals returns "10.0000".
func FormatFixedAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return ZeroDisplayAmount()
	}

	str := amount.String()

	// Pad with leading zeros if necessary
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	intPart := str[:decimalPos]
	decPart := str[decimalPos:]

	// Truncate or pad fraction to the fixed display width
	for len(decPart) < DisplayDigits {
		decPart += "0"
	}
	decPart = decPart[:DisplayDigits]

	return intPart + "." + decPart
}

// ZeroDisplayAmount returns the display form of a zero balance.
func ZeroDisplayAmount() string {
	return "0." + strings.Repeat("0", DisplayDigits)
}

// FormatDecimalAmount converts a big.Int to a human-readable string with the given decimal places.
// Trailing zeros after the decimal point are removed.
// For example, 1500000000000000000 with 18 decimals returns "1.5".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()

	// Pad with leading zeros if necessary
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	// Insert decimal point
	decimalPos := len(str) - decimalPlaces
	result := str[:decimalPos] + "." + str[decimalPos:]

	// Remove unnecessary trailing zeros
	for len(result) > 1 && result[len(result)-1] == '0' && result[len(result)-2] != '.' {
		result = result[:len(result)-1]
	}

	return result
}

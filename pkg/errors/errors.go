// Package errors provides structured error handling for FarGift.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitRejected   = 3 // User declined an interactive prompt
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Precondition violation or insufficient funds
)

// GiftError is the structured error type for FarGift.
type GiftError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *GiftError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *GiftError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for GiftError.
func (e *GiftError) Is(target error) bool {
	var t *GiftError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &GiftError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &GiftError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// Provider errors.
	ErrProviderMissing = &GiftError{
		Code:     "PROVIDER_MISSING",
		Message:  "no wallet provider available",
		ExitCode: ExitGeneral,
	}

	ErrConnectionRejected = &GiftError{
		Code:     "CONNECTION_REJECTED",
		Message:  "wallet connection request was declined",
		ExitCode: ExitRejected,
	}

	ErrWatcherUnavailable = &GiftError{
		Code:     "WATCHER_UNAVAILABLE",
		Message:  "provider event subscription unavailable",
		ExitCode: ExitGeneral,
	}

	// Session errors.
	ErrNotConnected = &GiftError{
		Code:     "NOT_CONNECTED",
		Message:  "wallet is not connected",
		ExitCode: ExitPermission,
	}

	// Transaction errors.
	ErrUserRejected = &GiftError{
		Code:     "USER_REJECTED",
		Message:  "transaction was declined by the user",
		ExitCode: ExitRejected,
	}

	ErrSubmissionFailed = &GiftError{
		Code:     "SUBMISSION_FAILED",
		Message:  "gift transaction submission failed",
		ExitCode: ExitGeneral,
	}

	ErrAlreadyInProgress = &GiftError{
		Code:     "ALREADY_IN_PROGRESS",
		Message:  "a gift submission is already in progress",
		ExitCode: ExitPermission,
	}

	// Validation errors.
	ErrNoRecipient = &GiftError{
		Code:     "NO_RECIPIENT",
		Message:  "at least one recipient is required for a private gift",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &GiftError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrInsufficientFunds = &GiftError{
		Code:     "INSUFFICIENT_FUNDS",
		Message:  "insufficient funds for gift",
		ExitCode: ExitPermission,
	}

	ErrInvalidAddress = &GiftError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	// Gift lookup errors.
	ErrGiftNotFound = &GiftError{
		Code:     "GIFT_NOT_FOUND",
		Message:  "gift not found",
		ExitCode: ExitNotFound,
	}

	ErrGiftIDRequired = &GiftError{
		Code:     "GIFT_ID_REQUIRED",
		Message:  "gift ID is required",
		ExitCode: ExitInput,
	}

	ErrGiftNotClaimable = &GiftError{
		Code:     "GIFT_NOT_CLAIMABLE",
		Message:  "gift cannot be unwrapped by this account",
		ExitCode: ExitPermission,
	}

	// Network errors.
	ErrNetworkError = &GiftError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	// Config-specific errors.
	ErrConfigNotFound = &GiftError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &GiftError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &GiftError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new GiftError with the given code and message.
func New(code, message string) *GiftError {
	return &GiftError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ge *GiftError
	if errors.As(err, &ge) {
		return &GiftError{
			Code:       ge.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ge.Message),
			Details:    ge.Details,
			Suggestion: ge.Suggestion,
			Cause:      err,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GiftError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ge *GiftError
	if errors.As(err, &ge) {
		return &GiftError{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    details,
			Suggestion: ge.Suggestion,
			Cause:      ge.Cause,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GiftError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithCause attaches an underlying cause to an error while keeping its
// code, message, and exit code. Used to classify a raw failure under a
// sentinel without losing the original error chain.
func WithCause(err, cause error) error {
	if err == nil {
		return nil
	}

	var ge *GiftError
	if errors.As(err, &ge) {
		return &GiftError{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    ge.Details,
			Suggestion: ge.Suggestion,
			Cause:      cause,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GiftError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Cause:    cause,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ge *GiftError
	if errors.As(err, &ge) {
		return &GiftError{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    ge.Details,
			Suggestion: suggestion,
			Cause:      ge.Cause,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GiftError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ge *GiftError
	if errors.As(err, &ge) {
		return ge.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ge *GiftError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}

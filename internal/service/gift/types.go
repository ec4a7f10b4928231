// Package gift implements the gift domain: draft validation, the
// transaction submission lifecycle, and read/claim access to existing
// gifts through an injected contract gateway.
package gift

import (
	"context"
	"time"
)

// Draft is a gift as composed by the form layer. The package never mutates
// a draft it is given.
type Draft struct {
	// Recipients is the ordered recipient list. Ignored for public gifts.
	Recipients []string

	// IsPublic marks a gift claimable by anyone.
	IsPublic bool

	// Amount is the decimal native-currency amount, e.g. "0.5".
	Amount string

	Title   string
	Message string
}

// Status is the lifecycle state of a submission record.
type Status int

// Submission lifecycle states. Success and Failed are terminal; a new
// submission creates a fresh record rather than reusing a terminal one.
const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record tracks one gift-creation submission.
type Record struct {
	Status      Status
	TxID        string
	SubmittedAt time.Time
}

// Terminal reports whether the record reached a final state.
func (r *Record) Terminal() bool {
	return r.Status == StatusSuccess || r.Status == StatusFailed
}

// Payload is the normalized submission handed to the Submitter.
type Payload struct {
	Recipients  []string
	IsPublic    bool
	Amount      string
	Title       string
	Description string
	Sender      string
	SubmittedAt time.Time
}

// Submitter is the transaction-submission capability. The on-chain gift
// contract call behind it belongs to another component; the only contract
// here is: resolve to a transaction identifier or reject with an error.
type Submitter interface {
	SubmitGiftTransaction(ctx context.Context, payload Payload) (string, error)
}

// GiftStatus is the on-chain state of an existing gift.
type GiftStatus string

// Gift states as reported by the gateway.
const (
	GiftActive    GiftStatus = "active"
	GiftUnwrapped GiftStatus = "unwrapped"
	GiftTakenBack GiftStatus = "taken_back"
	GiftExpired   GiftStatus = "expired"
)

// Label returns the human-readable form of a gift status.
func (s GiftStatus) Label() string {
	switch s {
	case GiftActive:
		return "Active"
	case GiftUnwrapped:
		return "Unwrapped"
	case GiftTakenBack:
		return "Taken Back"
	case GiftExpired:
		return "Expired"
	default:
		return string(s)
	}
}

// Gift is an existing gift as reported by the gateway. Recipient is empty
// for public gifts.
type Gift struct {
	ID        string
	Sender    string
	Recipient string
	IsPublic  bool
	Amount    string
	Title     string
	Message   string
	Status    GiftStatus
	CreatedAt time.Time
}

// Gateway is the read/claim capability over the gift contract.
type Gateway interface {
	// ListGifts returns the gifts visible to the viewer.
	ListGifts(ctx context.Context, viewer string) ([]Gift, error)

	// UnwrapGift claims a gift for the claimer and returns the resulting
	// transaction identifier.
	UnwrapGift(ctx context.Context, giftID, claimer string) (string, error)
}

// LogWriter provides logging operations.
type LogWriter interface {
	Debug(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

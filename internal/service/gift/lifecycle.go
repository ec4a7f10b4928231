package gift

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/fargift/fargift/internal/chain"
	"github.com/fargift/fargift/internal/metrics"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// RefreshFunc is called after a successful submission so the session can
// re-read the sender's balance. It runs on its own goroutine; the Success
// transition never waits for it.
type RefreshFunc func(sender string)

// Lifecycle drives gift-creation submissions through
// idle -> pending -> success | failed. At most one submission may be in
// flight at a time; exclusivity is enforced by record state, not by
// serializing callers.
type Lifecycle struct {
	submitter Submitter
	onSuccess RefreshFunc
	log       LogWriter

	mu      sync.Mutex
	current *Record
	gen     uint64
}

// NewLifecycle creates a submission lifecycle around the given submitter.
func NewLifecycle(submitter Submitter, onSuccess RefreshFunc, log LogWriter) *Lifecycle {
	return &Lifecycle{
		submitter: submitter,
		onSuccess: onSuccess,
		log:       log,
	}
}

// Current returns a copy of the latest record, or an idle record when no
// submission has happened yet.
func (l *Lifecycle) Current() Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return Record{Status: StatusIdle}
	}
	return *l.current
}

// Reset drops the current record and invalidates any in-flight submission
// result. Called on chain change: a pending transaction on the old chain
// must not surface as the outcome on the new one.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = nil
	l.gen++
}

// Submit runs one gift-creation submission. The draft must already have
// passed Validate; only a defensive positive-amount recheck happens here.
// The returned record is the caller's copy of the outcome.
func (l *Lifecycle) Submit(ctx context.Context, draft Draft, sender string) (Record, error) {
	sender = chain.NormalizeAddress(sender)
	if sender == "" {
		return Record{Status: StatusIdle}, gifterr.WithSuggestion(
			gifterr.ErrNotConnected,
			"connect a wallet before creating a gift",
		)
	}

	amount, err := chain.ParseDecimalAmount(
		strings.TrimSpace(draft.Amount), chain.NativeDecimals, gifterr.ErrInvalidAmount)
	if err != nil || amount.Sign() <= 0 {
		return Record{Status: StatusIdle}, gifterr.WithDetails(
			gifterr.ErrInvalidAmount,
			map[string]string{"amount": draft.Amount},
		)
	}

	record, gen, err := l.beginSubmission()
	if err != nil {
		return record, err
	}

	payload := buildPayload(draft, sender, amount, record.SubmittedAt)

	txID, submitErr := l.submitter.SubmitGiftTransaction(ctx, payload)
	metrics.Global.RecordSubmission(submitErr)

	l.mu.Lock()
	stale := gen != l.gen
	if submitErr != nil {
		record.Status = StatusFailed
		record.TxID = ""
	} else {
		record.Status = StatusSuccess
		record.TxID = txID
	}
	if !stale {
		stored := record
		l.current = &stored
	}
	l.mu.Unlock()

	if submitErr != nil {
		return record, classifyRejection(submitErr)
	}

	if l.log != nil {
		l.log.Debug("gift submitted: tx=%s sender=%s", txID, chain.ShortenAddress(sender))
	}

	// Balance refresh after success is fire-and-forget; Success never
	// blocks on it.
	if l.onSuccess != nil {
		go l.onSuccess(sender)
	}

	return record, nil
}

// beginSubmission reserves the single in-flight slot and returns a fresh
// pending record.
func (l *Lifecycle) beginSubmission() (Record, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.Status == StatusPending {
		// Never touch the in-flight record
		return *l.current, 0, gifterr.ErrAlreadyInProgress
	}

	record := Record{
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	stored := record
	l.current = &stored

	return record, l.gen, nil
}

// buildPayload normalizes a draft into the submission payload. Public
// gifts carry no recipients; blank entries are dropped, addresses are
// lowercase-normalized, and the amount is re-rendered in canonical
// decimal form.
func buildPayload(draft Draft, sender string, amount *big.Int, submittedAt time.Time) Payload {
	var recipients []string
	if !draft.IsPublic {
		for _, r := range draft.Recipients {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			recipients = append(recipients, chain.NormalizeAddress(r))
		}
	}

	return Payload{
		Recipients:  recipients,
		IsPublic:    draft.IsPublic,
		// Canonical decimal form, so "0.50" and " 0.5 " submit the same.
		Amount: chain.FormatDecimalAmount(amount, chain.NativeDecimals),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Message),
		Sender:      sender,
		SubmittedAt: submittedAt,
	}
}

// declineMarkers are substrings that identify a user-declined rejection
// from submitters that do not use structured errors.
var declineMarkers = []string{
	"user rejected",
	"user declined",
	"user denied",
}

// classifyRejection distinguishes a user-declined rejection from any other
// submission failure.
func classifyRejection(err error) error {
	if gifterr.Is(err, gifterr.ErrUserRejected) || gifterr.Is(err, gifterr.ErrConnectionRejected) {
		return gifterr.ErrUserRejected
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range declineMarkers {
		if strings.Contains(msg, marker) {
			return gifterr.ErrUserRejected
		}
	}

	return gifterr.WithCause(gifterr.ErrSubmissionFailed, err)
}

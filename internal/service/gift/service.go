package gift

import (
	"context"
	"strings"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

// Service exposes the read/claim operations over a Gateway, enforcing the
// connected-wallet preconditions shared by every caller.
type Service struct {
	gateway Gateway
	log     LogWriter
}

// NewService creates a gift service backed by the given gateway.
func NewService(gateway Gateway, log LogWriter) *Service {
	return &Service{
		gateway: gateway,
		log:     log,
	}
}

// List returns the gifts visible to the viewer address.
func (s *Service) List(ctx context.Context, viewer string) ([]Gift, error) {
	viewer = strings.ToLower(strings.TrimSpace(viewer))
	if viewer == "" {
		return nil, gifterr.WithSuggestion(gifterr.ErrNotConnected,
			"connect a wallet before listing gifts")
	}
	if s.gateway == nil {
		return nil, gifterr.ErrProviderMissing
	}

	gifts, err := s.gateway.ListGifts(ctx, viewer)
	if err != nil {
		s.log.Error("list gifts for %s: %v", viewer, err)
		return nil, gifterr.Wrap(err, "listing gifts")
	}

	s.log.Debug("listed %d gifts for %s", len(gifts), viewer)
	return gifts, nil
}

// Unwrap claims the gift with the given ID for the claimer address and
// returns the resulting transaction identifier.
func (s *Service) Unwrap(ctx context.Context, giftID, claimer string) (string, error) {
	giftID = strings.TrimSpace(giftID)
	if giftID == "" {
		return "", gifterr.ErrGiftIDRequired
	}

	claimer = strings.ToLower(strings.TrimSpace(claimer))
	if claimer == "" {
		return "", gifterr.WithSuggestion(gifterr.ErrNotConnected,
			"connect a wallet before unwrapping a gift")
	}
	if s.gateway == nil {
		return "", gifterr.ErrProviderMissing
	}

	txID, err := s.gateway.UnwrapGift(ctx, giftID, claimer)
	if err != nil {
		s.log.Error("unwrap gift %s for %s: %v", giftID, claimer, err)
		return "", err
	}

	s.log.Debug("gift %s unwrapped by %s, tx %s", giftID, claimer, txID)
	return txID, nil
}

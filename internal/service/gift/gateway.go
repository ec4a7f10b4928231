package gift

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fargift/fargift/internal/chain"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// MemoryGateway keeps gifts in process memory. It backs the list and
// unwrap operations when no on-chain gateway is configured, and doubles
// as the dry-run target for gift creation.
type MemoryGateway struct {
	mu     sync.Mutex
	gifts  map[string]*Gift
	order  []string
	nextID int
	now    func() time.Time
}

// NewMemoryGateway returns an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		gifts:  make(map[string]*Gift),
		nextID: 1,
		now:    time.Now,
	}
}

// Seed inserts gifts directly, assigning IDs to any entry without one.
// Intended for demo data and tests.
func (g *MemoryGateway) Seed(gifts ...Gift) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, gift := range gifts {
		stored := gift
		if stored.ID == "" {
			stored.ID = g.allocateID()
		}
		stored.Sender = chain.NormalizeAddress(stored.Sender)
		stored.Recipient = chain.NormalizeAddress(stored.Recipient)
		if stored.Status == "" {
			stored.Status = GiftActive
		}
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = g.now()
		}
		g.gifts[stored.ID] = &stored
		g.order = append(g.order, stored.ID)
	}
}

// SubmitGiftTransaction records the gift locally and returns a synthetic
// transaction ID. Public gifts store an empty recipient; private gifts
// with several recipients get one gift entry each.
func (g *MemoryGateway) SubmitGiftTransaction(_ context.Context, payload Payload) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	recipients := payload.Recipients
	if payload.IsPublic || len(recipients) == 0 {
		recipients = []string{""}
	}

	var firstID string
	for _, recipient := range recipients {
		gift := &Gift{
			ID:        g.allocateID(),
			Sender:    chain.NormalizeAddress(payload.Sender),
			Recipient: chain.NormalizeAddress(recipient),
			IsPublic:  payload.IsPublic,
			Amount:    payload.Amount,
			Title:     payload.Title,
			Message:   payload.Description,
			Status:    GiftActive,
			CreatedAt: payload.SubmittedAt,
		}
		if gift.CreatedAt.IsZero() {
			gift.CreatedAt = g.now()
		}
		g.gifts[gift.ID] = gift
		g.order = append(g.order, gift.ID)
		if firstID == "" {
			firstID = gift.ID
		}
	}

	return fmt.Sprintf("0xlocal%s", firstID), nil
}

// ListGifts returns gifts visible to the viewer: public gifts, gifts the
// viewer sent, and gifts addressed to the viewer. Newest first.
func (g *MemoryGateway) ListGifts(_ context.Context, viewer string) ([]Gift, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	viewer = chain.NormalizeAddress(viewer)

	var out []Gift
	for i := len(g.order) - 1; i >= 0; i-- {
		gift := g.gifts[g.order[i]]
		if gift.IsPublic || gift.Sender == viewer || gift.Recipient == viewer {
			out = append(out, *gift)
		}
	}

	return out, nil
}

// UnwrapGift claims a gift for the claimer. Only active gifts can be
// unwrapped, and private gifts only by their recipient.
func (g *MemoryGateway) UnwrapGift(_ context.Context, giftID, claimer string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	gift, ok := g.gifts[giftID]
	if !ok {
		return "", gifterr.WithDetails(gifterr.ErrGiftNotFound, map[string]string{
			"giftId": giftID,
		})
	}

	claimer = chain.NormalizeAddress(claimer)

	if gift.Status != GiftActive {
		return "", gifterr.WithDetails(gifterr.ErrGiftNotClaimable, map[string]string{
			"giftId": giftID,
			"status": string(gift.Status),
		})
	}
	if !gift.IsPublic && gift.Recipient != claimer {
		return "", gifterr.WithDetails(gifterr.ErrGiftNotClaimable, map[string]string{
			"giftId": giftID,
			"reason": "gift is reserved for another recipient",
		})
	}

	gift.Status = GiftUnwrapped
	if !gift.IsPublic || gift.Recipient == "" {
		gift.Recipient = claimer
	}

	return fmt.Sprintf("0xclaim%s", giftID), nil
}

func (g *MemoryGateway) allocateID() string {
	id := fmt.Sprintf("%d", g.nextID)
	g.nextID++
	return id
}

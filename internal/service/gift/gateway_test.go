package gift

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

const (
	senderAddr   = "0x1111111111111111111111111111111111111111"
	friendAddr   = "0x2222222222222222222222222222222222222222"
	strangerAddr = "0x3333333333333333333333333333333333333333"
)

func seededGateway() *MemoryGateway {
	g := NewMemoryGateway()
	g.Seed(
		Gift{Sender: senderAddr, Recipient: friendAddr, Amount: "0.5", Title: "For you", Status: GiftActive},
		Gift{Sender: senderAddr, IsPublic: true, Amount: "0.1", Title: "Grab it", Status: GiftActive},
		Gift{Sender: strangerAddr, Recipient: friendAddr, Amount: "1.0", Status: GiftUnwrapped},
		Gift{Sender: strangerAddr, Recipient: strangerAddr, Amount: "2.0", Status: GiftActive},
	)
	return g
}

func TestMemoryGatewayListVisibility(t *testing.T) {
	t.Parallel()

	g := seededGateway()

	tests := []struct {
		name    string
		viewer  string
		wantIDs []string
	}{
		{
			// Sent two, public one is duplicated by visibility rules only once.
			name:    "sender sees own gifts and public gifts",
			viewer:  senderAddr,
			wantIDs: []string{"2", "1"},
		},
		{
			name:    "recipient sees addressed and public gifts",
			viewer:  friendAddr,
			wantIDs: []string{"3", "2", "1"},
		},
		{
			name:    "uninvolved viewer sees only public gifts",
			viewer:  "0x4444444444444444444444444444444444444444",
			wantIDs: []string{"2"},
		},
		{
			name:    "viewer casing is ignored",
			viewer:  "0x1111111111111111111111111111111111111111",
			wantIDs: []string{"2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gifts, err := g.ListGifts(context.Background(), tt.viewer)
			require.NoError(t, err)

			ids := make([]string, 0, len(gifts))
			for _, gift := range gifts {
				ids = append(ids, gift.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestMemoryGatewayUnwrap(t *testing.T) {
	t.Parallel()

	t.Run("recipient unwraps private gift", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		txID, err := g.UnwrapGift(context.Background(), "1", friendAddr)
		require.NoError(t, err)
		assert.NotEmpty(t, txID)

		gifts, err := g.ListGifts(context.Background(), friendAddr)
		require.NoError(t, err)
		for _, gift := range gifts {
			if gift.ID == "1" {
				assert.Equal(t, GiftUnwrapped, gift.Status)
			}
		}
	})

	t.Run("anyone unwraps public gift", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		_, err := g.UnwrapGift(context.Background(), "2", strangerAddr)
		require.NoError(t, err)
	})

	t.Run("stranger cannot unwrap private gift", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		_, err := g.UnwrapGift(context.Background(), "1", strangerAddr)
		require.Error(t, err)
		assert.True(t, gifterr.Is(err, gifterr.ErrGiftNotClaimable))
	})

	t.Run("already unwrapped gift", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		_, err := g.UnwrapGift(context.Background(), "3", friendAddr)
		require.Error(t, err)
		assert.True(t, gifterr.Is(err, gifterr.ErrGiftNotClaimable))
	})

	t.Run("unknown gift", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		_, err := g.UnwrapGift(context.Background(), "999", friendAddr)
		require.Error(t, err)
		assert.True(t, gifterr.Is(err, gifterr.ErrGiftNotFound))
	})

	t.Run("unwrap is not repeatable", func(t *testing.T) {
		t.Parallel()

		g := seededGateway()
		_, err := g.UnwrapGift(context.Background(), "2", strangerAddr)
		require.NoError(t, err)

		_, err = g.UnwrapGift(context.Background(), "2", friendAddr)
		require.Error(t, err)
		assert.True(t, gifterr.Is(err, gifterr.ErrGiftNotClaimable))
	})
}

func TestMemoryGatewaySubmitCreatesGifts(t *testing.T) {
	t.Parallel()

	g := NewMemoryGateway()
	txID, err := g.SubmitGiftTransaction(context.Background(), Payload{
		Recipients: []string{friendAddr, strangerAddr},
		Amount:     "0.25",
		Title:      "Split",
		Sender:     senderAddr,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, txID)

	gifts, err := g.ListGifts(context.Background(), friendAddr)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, "0.25", gifts[0].Amount)
	assert.Equal(t, GiftActive, gifts[0].Status)

	gifts, err = g.ListGifts(context.Background(), strangerAddr)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
}

func TestMemoryGatewaySubmitPublicGift(t *testing.T) {
	t.Parallel()

	g := NewMemoryGateway()
	_, err := g.SubmitGiftTransaction(context.Background(), Payload{
		IsPublic: true,
		Amount:   "0.1",
		Sender:   senderAddr,
	})
	require.NoError(t, err)

	gifts, err := g.ListGifts(context.Background(), strangerAddr)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.True(t, gifts[0].IsPublic)
	assert.Empty(t, gifts[0].Recipient)
}

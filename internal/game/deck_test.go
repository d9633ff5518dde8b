// internal/game/deck_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(7)))
	require.Len(t, deck, DeckSize)

	faces := make(map[string]int)
	ids := make(map[uuid.UUID]bool)
	for _, c := range deck {
		faces[c.String()]++
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		assert.Equal(t, models.RankValue(c.Rank), c.Value)
	}
	assert.Len(t, faces, 54)
	for face, n := range faces {
		assert.Equal(t, 2, n, "face %s", face)
	}
	assert.Equal(t, 2, faces["2H"], "two wildcards per double deck")
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(1)))
	before := make(map[uuid.UUID]bool, len(deck))
	for _, c := range deck {
		before[c.ID] = true
	}
	shuffle(deck, rand.New(rand.NewSource(2)))
	require.Len(t, deck, DeckSize)
	for _, c := range deck {
		assert.True(t, before[c.ID])
		delete(before, c.ID)
	}
	assert.Empty(t, before)
}

func TestShuffleSpreadsPositions(t *testing.T) {
	// Track where the card starting at index 0 lands. A fair shuffle puts it in each
	// quarter of the deck roughly a quarter of the time.
	rng := rand.New(rand.NewSource(42))
	const trials = 4000
	var quarters [4]int
	for i := 0; i < trials; i++ {
		deck := make([]models.Card, DeckSize)
		for j := range deck {
			deck[j] = models.Card{Value: j}
		}
		shuffle(deck, rng)
		for j, c := range deck {
			if c.Value == 0 {
				quarters[j*4/DeckSize]++
				break
			}
		}
	}
	for q, n := range quarters {
		assert.InDelta(t, trials/4, n, trials/10, "quarter %d", q)
	}
}

func TestDeal(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(3)))
	hands := Deal(deck)
	total := 0
	for seat, h := range hands {
		require.Len(t, h, HandSize, "seat %d", seat)
		for i := 1; i < len(h); i++ {
			assert.LessOrEqual(t, h[i-1].Power(), h[i].Power(), "seat %d is sorted", seat)
		}
		total += len(h)
	}
	assert.Equal(t, DeckSize, total)
	// Round-robin: the first card of the deck goes to seat 0.
	assert.Contains(t, hands[0], deck[0])
	assert.Contains(t, hands[1], deck[1])
}

func TestTeammate(t *testing.T) {
	assert.Equal(t, 2, Teammate(0))
	assert.Equal(t, 3, Teammate(1))
	assert.Equal(t, 0, Teammate(2))
	assert.Equal(t, 1, Teammate(3))
}

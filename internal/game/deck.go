// internal/game/deck.go
package game

import (
	"math/rand"
	"sort"

	"github.com/Crayxus/crayxus-game/internal/models"
)

const (
	// NumSeats is fixed: two teams of two.
	NumSeats = 4
	// DeckSize is two 54-card decks.
	DeckSize = 108
	// HandSize is the number of cards dealt to each seat.
	HandSize = DeckSize / NumSeats
)

// Teammate returns the partner seat. Seats 0&2 and 1&3 form the teams.
func Teammate(seat int) int {
	return (seat + 2) % NumSeats
}

// NewDeck builds the 108-card double deck and shuffles it with rng.
func NewDeck(rng *rand.Rand) []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for d := 0; d < 2; d++ {
		for _, suit := range models.OrdinarySuits {
			for _, rank := range models.OrdinaryRanks {
				deck = append(deck, models.NewCard(suit, rank))
			}
		}
		deck = append(deck,
			models.NewCard(models.SuitJoker, models.RankSmallJoker),
			models.NewCard(models.SuitJoker, models.RankBigJoker),
		)
	}
	shuffle(deck, rng)
	return deck
}

// shuffle is a plain Fisher-Yates pass, walking down from the last index.
func shuffle(deck []models.Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal hands the deck out round-robin and sorts each hand by power.
func Deal(deck []models.Card) [NumSeats][]models.Card {
	var hands [NumSeats][]models.Card
	for i := range hands {
		hands[i] = make([]models.Card, 0, len(deck)/NumSeats+1)
	}
	for i, c := range deck {
		hands[i%NumSeats] = append(hands[i%NumSeats], c)
	}
	for i := range hands {
		SortHand(hands[i])
	}
	return hands
}

// SortHand orders cards by ascending power.
func SortHand(hand []models.Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		return hand[i].Power() < hand[j].Power()
	})
}

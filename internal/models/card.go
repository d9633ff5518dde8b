// internal/models/card.go
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Suits. Jokers carry their own suit so every card has exactly one.
const (
	SuitSpades   = "S"
	SuitHearts   = "H"
	SuitClubs    = "C"
	SuitDiamonds = "D"
	SuitJoker    = "J"
)

// Ranks, listed in ascending order of strength.
const (
	RankThree      = "3"
	RankFour       = "4"
	RankFive       = "5"
	RankSix        = "6"
	RankSeven      = "7"
	RankEight      = "8"
	RankNine       = "9"
	RankTen        = "T"
	RankJack       = "J"
	RankQueen      = "Q"
	RankKing       = "K"
	RankAce        = "A"
	RankTwo        = "2"
	RankSmallJoker = "SJ"
	RankBigJoker   = "BJ"
)

// Rank values on the ascending scale used for every comparison.
const (
	ValueThree      = 3
	ValueAce        = 14
	ValueTwo        = 15
	ValueSmallJoker = 16
	ValueBigJoker   = 17
)

// WildSuit and WildRank identify the wildcard: the 2 of hearts.
const (
	WildSuit = SuitHearts
	WildRank = RankTwo
)

// OrdinarySuits are the four non-joker suits in deck order.
var OrdinarySuits = []string{SuitSpades, SuitHearts, SuitClubs, SuitDiamonds}

// OrdinaryRanks are the thirteen face values in ascending order.
var OrdinaryRanks = []string{
	RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight, RankNine,
	RankTen, RankJack, RankQueen, RankKing, RankAce, RankTwo,
}

var rankValues = map[string]int{
	RankThree: 3, RankFour: 4, RankFive: 5, RankSix: 6, RankSeven: 7,
	RankEight: 8, RankNine: 9, RankTen: 10, RankJack: 11, RankQueen: 12,
	RankKing: 13, RankAce: 14, RankTwo: 15,
	RankSmallJoker: ValueSmallJoker, RankBigJoker: ValueBigJoker,
}

var suitOrder = map[string]int{
	SuitSpades: 0, SuitHearts: 1, SuitClubs: 2, SuitDiamonds: 3, SuitJoker: 4,
}

// Card is a single physical card. ID is unique within one deck; gameplay compares
// cards by (Suit, Rank) only.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Suit  string    `json:"suit"`
	Rank  string    `json:"rank"`
	Value int       `json:"value"`
}

// NewCard builds a card with a fresh id and its rank value filled in.
func NewCard(suit, rank string) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: rank, Value: RankValue(rank)}
}

// RankValue maps a rank to the 3..17 scale, or 0 for an unknown rank.
func RankValue(rank string) int {
	return rankValues[rank]
}

// Power is the ascending sort key: rank first, suit second.
func (c Card) Power() int {
	return RankValue(c.Rank)*8 + suitOrder[c.Suit]
}

// IsWild reports whether the card is the wildcard.
func (c Card) IsWild() bool {
	return c.Suit == WildSuit && c.Rank == WildRank
}

// IsJoker reports whether the card is either joker.
func (c Card) IsJoker() bool {
	return c.Suit == SuitJoker
}

// SameFace reports whether two cards share suit and rank.
func (c Card) SameFace(o Card) bool {
	return c.Suit == o.Suit && c.Rank == o.Rank
}

func (c Card) String() string {
	if c.IsJoker() {
		return c.Rank
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

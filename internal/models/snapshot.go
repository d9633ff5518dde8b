// internal/models/snapshot.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Seat occupant kinds, as persisted and as sent in roomUpdate.
const (
	OccupantEmpty = "empty"
	OccupantBot   = "bot"
	OccupantHuman = "human"
)

// SeatSnapshot is the persisted form of one seat.
type SeatSnapshot struct {
	Occupant string    `json:"occupant"`
	PlayerID uuid.UUID `json:"playerId,omitempty"`
}

// CombinationSnapshot is the persisted form of the open round's last play.
type CombinationSnapshot struct {
	Owner int    `json:"owner"`
	Type  string `json:"type"`
	Rank  int    `json:"rank"`
	Count int    `json:"count"`
	Power int    `json:"power"`
}

// SessionSnapshot is the persisted form of an in-flight game.
type SessionSnapshot struct {
	Active          bool                 `json:"active"`
	Turn            int                  `json:"turn"`
	Hands           [4][]Card            `json:"hands"`
	LastCombination *CombinationSnapshot `json:"lastCombination,omitempty"`
	PassCount       int                  `json:"passCount"`
	FinishedOrder   []int                `json:"finishedOrder"`
	CardsPlayed     int                  `json:"cardsPlayed"`
}

// RoomSnapshot is everything needed to bring a room back after a restart.
type RoomSnapshot struct {
	Code              string           `json:"code"`
	Seats             [4]SeatSnapshot  `json:"seats"`
	Session           *SessionSnapshot `json:"session,omitempty"`
	GameCount         int              `json:"gameCount"`
	LastFinishedOrder []int            `json:"lastFinishedOrder"`
	SavedAt           time.Time        `json:"savedAt"`
}

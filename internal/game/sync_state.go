// internal/game/sync_state.go
package game

import "github.com/Crayxus/crayxus-game/internal/models"

// ResyncPayload is everything a client needs to rebuild its table without replaying
// history: its own hand plus the public state of the session.
type ResyncPayload struct {
	Seat            int           `json:"seat"`
	Hand            []models.Card `json:"hand"`
	Turn            int           `json:"turn"`
	LastCombination *LastPlay     `json:"lastCombination"`
	HandSizeCounts  [NumSeats]int `json:"handSizeCounts"`
	FinishedOrder   []int         `json:"finishedOrder"`
	PassCount       int           `json:"passCount"`
	Active          bool          `json:"active"`
}

// ResyncFor builds the resync view of s for seat. A nil session yields the idle view.
func ResyncFor(s *Session, seat int) ResyncPayload {
	if s == nil {
		return ResyncPayload{
			Seat:          seat,
			Hand:          []models.Card{},
			Turn:          NoTurn,
			FinishedOrder: []int{},
		}
	}
	var last *LastPlay
	if s.Last != nil {
		cp := *s.Last
		last = &cp
	}
	return ResyncPayload{
		Seat:            seat,
		Hand:            s.Hand(seat),
		Turn:            s.Turn,
		LastCombination: last,
		HandSizeCounts:  s.HandSizes(),
		FinishedOrder:   s.Order(),
		PassCount:       s.PassCount,
		Active:          s.Active,
	}
}

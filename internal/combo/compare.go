// internal/combo/compare.go
package combo

import "github.com/Crayxus/crayxus-game/internal/models"

// CanBeat reports whether next may be played on top of prev. A nil prev means the player
// is leading and any valid combination is accepted.
func CanBeat(next Combination, prev *Combination) bool {
	if !next.Valid() {
		return false
	}
	if prev == nil || !prev.Valid() {
		return true
	}

	switch {
	case next.IsBombClass() && !prev.IsBombClass():
		return true
	case !next.IsBombClass() && prev.IsBombClass():
		return false
	case next.IsBombClass():
		if next.Power != prev.Power {
			return next.Power > prev.Power
		}
		return next.Rank > prev.Rank
	}

	if next.Type != prev.Type || next.Count != prev.Count {
		return false
	}
	return next.Rank > prev.Rank
}

// Beating returns the strongest reading of cards that beats prev, honouring declared when
// it names one of the readings. The second result is false when no reading qualifies.
func Beating(cards []models.Card, declared Type, prev *Combination) (Combination, bool) {
	readings := Readings(cards)
	if declared != Invalid {
		for _, r := range readings {
			if r.Type == declared && CanBeat(r, prev) {
				return r, true
			}
		}
	}
	for _, r := range readings {
		if CanBeat(r, prev) {
			return r, true
		}
	}
	return Combination{}, false
}

// internal/game/snapshot.go
package game

import (
	"context"
	"time"

	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/sirupsen/logrus"
)

// SnapshotStore persists room snapshots between process restarts.
type SnapshotStore interface {
	SaveRoom(ctx context.Context, snap *models.RoomSnapshot) error
	DeleteRoom(ctx context.Context, code string) error
	LoadRooms(ctx context.Context) ([]*models.RoomSnapshot, error)
}

func (r *Room) snapshot() *models.RoomSnapshot {
	if !r.inGame() {
		return nil
	}
	snap := &models.RoomSnapshot{
		Code:              r.Code,
		Session:           r.session.Snapshot(),
		GameCount:         r.gameCount,
		LastFinishedOrder: append([]int{}, r.lastFinishedOrder...),
		SavedAt:           time.Now().UTC(),
	}
	for i, st := range r.seats {
		snap.Seats[i] = models.SeatSnapshot{Occupant: st.occupant, PlayerID: st.playerID}
	}
	return snap
}

// restoreRoom rebuilds a room from a snapshot. Every human seat comes back as a bot
// holding its player id; the returned room still needs start().
func restoreRoom(snap *models.RoomSnapshot, cfg RoomConfig, ledger ScoreLedger, log *logrus.Entry, onClose func(string)) *Room {
	r := newRoom(snap.Code, cfg, ledger, log, onClose)
	for i, st := range snap.Seats {
		occupant := st.Occupant
		if occupant == models.OccupantHuman {
			occupant = models.OccupantBot
		}
		if occupant != models.OccupantBot {
			occupant = models.OccupantEmpty
		}
		r.seats[i] = seat{occupant: occupant, playerID: st.PlayerID}
	}
	if snap.Session != nil {
		r.session = RestoreSession(snap.Session, r.log)
		r.phase = PhasePlaying
		// A live session cannot run with empty seats.
		for i := range r.seats {
			if r.seats[i].occupant == models.OccupantEmpty {
				r.seats[i].occupant = models.OccupantBot
			}
		}
	}
	r.gameCount = snap.GameCount
	r.lastFinishedOrder = append([]int{}, snap.LastFinishedOrder...)
	r.armTimer()
	return r
}

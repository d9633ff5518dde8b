// internal/game/scoring.go
package game

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ScoreDeltas computes each seat's score change from a complete finish order.
// An order that does not name all four seats scores nothing.
func ScoreDeltas(finishedOrder []int) [NumSeats]int {
	var deltas [NumSeats]int
	if len(finishedOrder) != NumSeats {
		return deltas
	}
	var pos [NumSeats]int
	for i, seat := range finishedOrder {
		if seat < 0 || seat >= NumSeats || pos[seat] != 0 {
			return [NumSeats]int{}
		}
		pos[seat] = i + 1
	}
	for seat := range deltas {
		deltas[seat] = positionDelta(pos[seat], pos[Teammate(seat)])
	}
	return deltas
}

// positionDelta scores a seat finishing at mp whose teammate finished at pp. Only the
// winner of a 1-2 finish takes the top row; the runner-up falls through to +5.
func positionDelta(mp, pp int) int {
	switch {
	case mp == 1 && pp == 2:
		return 30
	case (mp == 1 || pp == 1) && mp+pp == 4:
		return 15
	case mp == 1 || pp == 1:
		return 5
	case mp+pp == 7:
		return -15
	default:
		return -5
	}
}

// ScoreLedger keeps the persistent per-player score.
type ScoreLedger interface {
	Score(ctx context.Context, playerID uuid.UUID) (int, error)
	Add(ctx context.Context, playerID uuid.UUID, delta int) (int, error)
}

// MemoryLedger is the process-local ledger used when no database is configured.
type MemoryLedger struct {
	mu     sync.Mutex
	scores map[uuid.UUID]int
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{scores: make(map[uuid.UUID]int)}
}

func (l *MemoryLedger) Score(_ context.Context, playerID uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scores[playerID], nil
}

func (l *MemoryLedger) Add(_ context.Context, playerID uuid.UUID, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scores[playerID] += delta
	return l.scores[playerID], nil
}

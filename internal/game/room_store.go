// internal/game/room_store.go
package game

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	persistTimeout   = 5 * time.Second
)

// RoomStore is the registry of live rooms. Its lock guards only the map; room state is
// always reached through the room's own goroutine.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	order []string

	cfg    RoomConfig
	ledger ScoreLedger
	snaps  SnapshotStore
	log    *logrus.Entry
}

// NewRoomStore builds an empty registry. snaps may be nil to run without crash recovery.
func NewRoomStore(cfg RoomConfig, ledger ScoreLedger, snaps SnapshotStore, log *logrus.Entry) *RoomStore {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &RoomStore{
		rooms:  make(map[string]*Room),
		cfg:    cfg,
		ledger: ledger,
		snaps:  snaps,
		log:    log,
	}
}

func (s *RoomStore) Get(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

// Count returns the number of live rooms.
func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

func (s *RoomStore) list() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Room, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.rooms[code])
	}
	return out
}

// Join seats conn. With a code it joins that room; without one it takes the first room
// that has space, creating a new room when none does.
func (s *RoomStore) Join(ctx context.Context, code string, conn Conn) (*Room, int, error) {
	if code != "" {
		r, ok := s.Get(code)
		if !ok {
			return nil, NoSeat, ErrRoomNotFound
		}
		seatIdx, err := r.Join(ctx, conn)
		if err != nil {
			return nil, NoSeat, err
		}
		return r, seatIdx, nil
	}

	for _, r := range s.list() {
		seatIdx, err := r.Join(ctx, conn)
		switch {
		case err == nil:
			return r, seatIdx, nil
		case errors.Is(err, ErrRoomFull), errors.Is(err, ErrRoomClosed):
			continue
		default:
			return nil, NoSeat, err
		}
	}

	r, err := s.create()
	if err != nil {
		return nil, NoSeat, err
	}
	seatIdx, err := r.Join(ctx, conn)
	if err != nil {
		return nil, NoSeat, err
	}
	return r, seatIdx, nil
}

// Rejoin puts conn back into seat of the room with code.
func (s *RoomStore) Rejoin(ctx context.Context, code string, seatIdx int, conn Conn) (*Room, error) {
	r, ok := s.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := r.Rejoin(ctx, conn, seatIdx); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RoomStore) create() (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt >= 16 {
			return nil, fmt.Errorf("could not allocate a room code after %d attempts", attempt)
		}
		c, err := newRoomCode(roomCodeLength)
		if err != nil {
			return nil, fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := s.rooms[c]; !taken {
			code = c
			break
		}
	}

	r := newRoom(code, s.cfg, s.ledger, s.log, s.remove)
	s.add(r)
	r.start()
	s.log.WithField("room", code).Info("room created")
	return r, nil
}

// add registers r. Caller holds s.mu.
func (s *RoomStore) add(r *Room) {
	s.rooms[r.Code] = r
	s.order = append(s.order, r.Code)
}

// remove drops a torn-down room and its snapshot. Rooms call it from their own
// goroutine, so the snapshot delete runs in the background.
func (s *RoomStore) remove(code string) {
	s.mu.Lock()
	delete(s.rooms, code)
	for i, c := range s.order {
		if c == code {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.log.WithField("room", code).Info("room removed")

	if s.snaps == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.snaps.DeleteRoom(ctx, code); err != nil {
			s.log.WithError(err).WithField("room", code).Warn("failed to delete room snapshot")
		}
	}()
}

// Restore loads every saved snapshot and resumes its game with bots in the human seats.
func (s *RoomStore) Restore(ctx context.Context) (int, error) {
	if s.snaps == nil {
		return 0, nil
	}
	snaps, err := s.snaps.LoadRooms(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: load snapshots: %v", ErrPersistence, err)
	}

	restored := 0
	for _, snap := range snaps {
		if snap == nil || snap.Session == nil || !snap.Session.Active {
			continue
		}
		s.mu.Lock()
		if _, exists := s.rooms[snap.Code]; exists {
			s.mu.Unlock()
			continue
		}
		r := restoreRoom(snap, s.cfg, s.ledger, s.log, s.remove)
		s.add(r)
		s.mu.Unlock()
		r.start()
		restored++
		s.log.WithFields(logrus.Fields{"room": snap.Code, "savedAt": snap.SavedAt}).Info("room restored")
	}
	return restored, nil
}

// SnapshotAll saves every room with a game in progress and deletes the snapshot of
// every room without one. Failures are logged and skipped.
func (s *RoomStore) SnapshotAll(ctx context.Context) error {
	if s.snaps == nil {
		return nil
	}
	var errs []error
	for _, r := range s.list() {
		snap, err := r.Snapshot()
		if err != nil {
			continue
		}
		if snap == nil {
			err = s.snaps.DeleteRoom(ctx, r.Code)
		} else {
			err = s.snaps.SaveRoom(ctx, snap)
		}
		if err != nil {
			s.log.WithError(err).WithField("room", r.Code).Warn("snapshot skipped")
			errs = append(errs, fmt.Errorf("%w: room %s: %v", ErrPersistence, r.Code, err))
		}
	}
	return errors.Join(errs...)
}

// RunSnapshots calls SnapshotAll every interval until ctx is cancelled.
func (s *RoomStore) RunSnapshots(ctx context.Context, interval time.Duration) {
	if s.snaps == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.SnapshotAll(ctx)
		}
	}
}

// Close stops every room. Snapshots are left in place for the next boot.
func (s *RoomStore) Close() {
	for _, r := range s.list() {
		r.Close()
	}
}

func newRoomCode(length int) (string, error) {
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(out), nil
}

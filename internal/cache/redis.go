// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

const (
	roomKeyPrefix = "crayxus:room:"
	roomSetKey    = "crayxus:rooms"
)

// ConnectRedis initializes the global Redis client and pings it.
func ConnectRedis(addr string, db int) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// SnapshotStore keeps one JSON document per room plus a set of room codes, so boot can
// find every room without a key scan.
type SnapshotStore struct {
	rdb *redis.Client
}

func NewSnapshotStore(rdb *redis.Client) *SnapshotStore {
	return &SnapshotStore{rdb: rdb}
}

func roomKey(code string) string {
	return roomKeyPrefix + code
}

// SaveRoom writes the snapshot and registers its code.
func (s *SnapshotStore) SaveRoom(ctx context.Context, snap *models.RoomSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for room %s: %w", snap.Code, err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, roomKey(snap.Code), data, 0)
		p.SAdd(ctx, roomSetKey, snap.Code)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot for room %s: %w", snap.Code, err)
	}
	return nil
}

// DeleteRoom removes the snapshot. Deleting a missing room is not an error.
func (s *SnapshotStore) DeleteRoom(ctx context.Context, code string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, roomKey(code))
		p.SRem(ctx, roomSetKey, code)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot for room %s: %w", code, err)
	}
	return nil
}

// LoadRooms reads every registered snapshot. Codes whose document has gone missing are
// pruned from the set; unreadable documents are skipped.
func (s *SnapshotStore) LoadRooms(ctx context.Context) ([]*models.RoomSnapshot, error) {
	codes, err := s.rdb.SMembers(ctx, roomSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room snapshots: %w", err)
	}

	var out []*models.RoomSnapshot
	var errs []error
	for _, code := range codes {
		data, err := s.rdb.Get(ctx, roomKey(code)).Bytes()
		if errors.Is(err, redis.Nil) {
			s.rdb.SRem(ctx, roomSetKey, code)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot for room %s: %w", code, err)
		}
		var snap models.RoomSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			errs = append(errs, fmt.Errorf("room %s: %w", code, err))
			continue
		}
		out = append(out, &snap)
	}
	if len(errs) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("no readable snapshots: %w", errors.Join(errs...))
	}
	return out, nil
}

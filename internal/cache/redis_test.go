// internal/cache/redis_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSnapshotStore(rdb), mr
}

func sampleSnapshot(code string) *models.RoomSnapshot {
	player := uuid.New()
	return &models.RoomSnapshot{
		Code: code,
		Seats: [4]models.SeatSnapshot{
			{Occupant: models.OccupantHuman, PlayerID: player},
			{Occupant: models.OccupantBot},
			{Occupant: models.OccupantBot},
			{Occupant: models.OccupantBot},
		},
		Session: &models.SessionSnapshot{
			Active: true,
			Turn:   2,
			Hands: [4][]models.Card{
				{models.NewCard(models.SuitSpades, models.RankFive)},
				{models.NewCard(models.SuitHearts, models.RankTwo)},
				{models.NewCard(models.SuitJoker, models.RankBigJoker)},
				{},
			},
			LastCombination: &models.CombinationSnapshot{Owner: 1, Type: "single", Rank: 9, Count: 1},
			PassCount:       1,
			FinishedOrder:   []int{3},
			CardsPlayed:     105,
		},
		GameCount:         3,
		LastFinishedOrder: []int{0, 2, 1, 3},
		SavedAt:           time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSaveAndLoadRooms(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot("ABC234")
	require.NoError(t, store.SaveRoom(ctx, snap))
	assert.True(t, mr.Exists("crayxus:room:ABC234"))
	ok, err := mr.SIsMember("crayxus:rooms", "ABC234")
	require.NoError(t, err)
	assert.True(t, ok)

	rooms, err := store.LoadRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, snap, rooms[0])
}

func TestDeleteRoom(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleSnapshot("ABC234")))
	require.NoError(t, store.SaveRoom(ctx, sampleSnapshot("XYZ789")))
	require.NoError(t, store.DeleteRoom(ctx, "ABC234"))
	require.NoError(t, store.DeleteRoom(ctx, "NEVER2"))

	assert.False(t, mr.Exists("crayxus:room:ABC234"))
	rooms, err := store.LoadRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "XYZ789", rooms[0].Code)
}

func TestLoadRoomsPrunesDanglingCodes(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleSnapshot("ABC234")))
	mr.Del("crayxus:room:ABC234")

	rooms, err := store.LoadRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	ok, err := mr.SIsMember("crayxus:rooms", "ABC234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadRoomsSkipsCorruptDocuments(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, sampleSnapshot("GOOD22")))
	require.NoError(t, mr.Set("crayxus:room:BAD222", "not json"))
	_, err := mr.SAdd("crayxus:rooms", "BAD222")
	require.NoError(t, err)

	rooms, err := store.LoadRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "GOOD22", rooms[0].Code)

	mr.Del("crayxus:room:GOOD22")
	_, err = store.LoadRooms(ctx)
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, ConnectRedis(mr.Addr(), 0))
	t.Cleanup(func() { _ = Rdb.Close() })

	mr.Close()
	assert.Error(t, ConnectRedis(mr.Addr(), 0))
}

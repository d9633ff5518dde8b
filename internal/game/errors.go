// internal/game/errors.go
package game

import "errors"

var (
	ErrInvalidCombination = errors.New("cards do not form a combination that can be played")
	ErrNotYourTurn        = errors.New("it is not this seat's turn")
	ErrIllegalPass        = errors.New("cannot pass while leading")
	ErrRoomFull           = errors.New("room is full")
	ErrSeatTaken          = errors.New("seat is taken")
	ErrInvalidSeat        = errors.New("no such seat")
	ErrRoomNotFound       = errors.New("room not found")
	ErrNoActiveGame       = errors.New("no game in progress")
	ErrNotHost            = errors.New("only the host can start the match")
	ErrGameInProgress     = errors.New("a game is already in progress")
	ErrNotSeated          = errors.New("connection holds no seat in this room")
	ErrRoomClosed         = errors.New("room is closed")
	ErrPersistence        = errors.New("persistence failure")
	ErrBadMessage         = errors.New("malformed message")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidCombination, "InvalidCombination"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrIllegalPass, "IllegalPass"},
	{ErrRoomFull, "RoomFull"},
	{ErrSeatTaken, "SeatTaken"},
	{ErrInvalidSeat, "InvalidSeat"},
	{ErrRoomNotFound, "RoomNotFound"},
	{ErrNoActiveGame, "NoActiveGame"},
	{ErrNotHost, "NotHost"},
	{ErrGameInProgress, "GameInProgress"},
	{ErrNotSeated, "NotSeated"},
	{ErrRoomClosed, "RoomClosed"},
	{ErrPersistence, "PersistenceIOFailure"},
	{ErrBadMessage, "BadMessage"},
}

// ErrorKind maps an error to the kind string sent to clients.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Internal"
}

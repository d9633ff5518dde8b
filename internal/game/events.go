// internal/game/events.go
package game

import (
	"encoding/json"

	"github.com/Crayxus/crayxus-game/internal/combo"
	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameEventType names an outbound message.
type GameEventType string

const (
	EventSession        GameEventType = "session"
	EventIdentity       GameEventType = "identity"
	EventRoomUpdate     GameEventType = "roomUpdate"
	EventPlayerLeft     GameEventType = "playerLeft"
	EventDealCards      GameEventType = "dealCards"
	EventGameStart      GameEventType = "gameStart"
	EventSyncAction     GameEventType = "syncAction"
	EventTurnCorrection GameEventType = "turnCorrection"
	EventResyncState    GameEventType = "resyncState"
	EventGameOver       GameEventType = "gameOver"
	EventError          GameEventType = "error"
	EventPong           GameEventType = "pong"
)

// GameEvent is the envelope every outbound message uses.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	Payload interface{}   `json:"payload,omitempty"`
}

type SessionPayload struct {
	PlayerID uuid.UUID `json:"playerId"`
	Token    string    `json:"token"`
}

type IdentityPayload struct {
	Seat     int    `json:"seat"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`
	RoomCode string `json:"roomCode"`
}

type RoomUpdatePayload struct {
	HumanCount int              `json:"humanCount"`
	Seats      [NumSeats]string `json:"seats"`
	Host       int              `json:"host"`
}

// PlayerLeftPayload names the seat a human gave up and what holds it now.
type PlayerLeftPayload struct {
	Seat     int    `json:"seat"`
	Occupant string `json:"occupant"`
}

type DealCardsPayload struct {
	Cards []models.Card `json:"cards"`
}

type GameStartPayload struct {
	StartTurn int   `json:"startTurn"`
	BotSeats  []int `json:"botSeats"`
}

type SyncActionPayload struct {
	Seat          int                `json:"seat"`
	Type          ActionKind         `json:"type"`
	Cards         []models.Card      `json:"cards"`
	Combination   *combo.Combination `json:"combination,omitempty"`
	NextTurn      int                `json:"nextTurn"`
	RoundClosed   bool               `json:"roundClosed"`
	FinishedOrder []int              `json:"finishedOrder"`
	Forced        bool               `json:"forced"`
}

type TurnCorrectionPayload struct {
	ServerTurn      int       `json:"serverTurn"`
	FinishedOrder   []int     `json:"finishedOrder"`
	LastCombination *LastPlay `json:"lastCombination"`
}

type GameOverPayload struct {
	FinishedOrder []int         `json:"finishedOrder"`
	Deltas        [NumSeats]int `json:"deltas"`
}

type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorEvent wraps err for the client.
func ErrorEvent(err error) GameEvent {
	return GameEvent{Type: EventError, Payload: ErrorPayload{Kind: ErrorKind(err), Message: err.Error()}}
}

func syncActionEvent(out Outcome) GameEvent {
	cards := out.Cards
	if cards == nil {
		cards = []models.Card{}
	}
	return GameEvent{Type: EventSyncAction, Payload: SyncActionPayload{
		Seat:          out.Seat,
		Type:          out.Kind,
		Cards:         cards,
		Combination:   out.Combination,
		NextTurn:      out.NextTurn,
		RoundClosed:   out.RoundClosed,
		FinishedOrder: out.FinishedOrder,
		Forced:        out.Forced,
	}}
}

// EncodeEvent marshals ev, falling back to an empty object when marshalling fails.
func EncodeEvent(ev GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		logrus.WithError(err).WithField("type", ev.Type).Warn("failed to marshal game event")
		return []byte("{}")
	}
	return data
}

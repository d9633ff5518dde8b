// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Crayxus/crayxus-game/internal/combo"
	"github.com/Crayxus/crayxus-game/internal/game"
	"github.com/Crayxus/crayxus-game/internal/middleware"
	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// ClientMessage is every inbound message. Which fields matter depends on Type.
type ClientMessage struct {
	Type string `json:"type"`

	// join and rejoin
	RoomCode string `json:"roomCode,omitempty"`
	// rejoin and action
	Seat *int `json:"seat,omitempty"`

	// action
	Action       game.ActionKind `json:"action,omitempty"`
	Cards        []models.Card   `json:"cards,omitempty"`
	DeclaredType string          `json:"declaredType,omitempty"`
}

// GameWSHandler upgrades the request, identifies the player and runs the read loop
// until the socket closes. Closing the socket is the disconnect signal.
func GameWSHandler(logger *logrus.Logger, rooms *game.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, token, err := resolvePlayer(w, r)
		if err != nil {
			logger.WithError(err).Error("failed to issue player token")
			http.Error(w, "could not issue token", http.StatusInternalServerError)
			return
		}

		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer ws.Close(websocket.StatusInternalError, "handler finished")

		if ws.Subprotocol() != "game" {
			ws.Close(BadSubprotocolError, "client must speak the game subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		c := newClient(playerID, logger.WithField("player", playerID))
		go writePump(ctx, ws, c)
		c.Send(game.GameEvent{Type: game.EventSession, Payload: game.SessionPayload{PlayerID: playerID, Token: token}})

		err = readPump(ctx, ws, c, rooms)

		if c.room != nil {
			c.room.Leave(c)
		}
		c.close()
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
		if errors.Is(err, context.Canceled) {
			ws.Close(ServerShutdownError, "server shutting down")
			return
		}
		ws.Close(websocket.StatusNormalClosure, "")
	}
}

// readPump reads messages until the socket fails. A normal close returns nil.
func readPump(ctx context.Context, ws *websocket.Conn, c *client, rooms *game.RoomStore) error {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		msgType, data, err := ws.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			c.log.Warnf("ignoring non-text message type %d", msgType)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.WithError(err).Debug("invalid JSON from client")
			c.Send(game.ErrorEvent(fmt.Errorf("%w: %v", game.ErrBadMessage, err)))
			continue
		}
		c.log.WithField("type", msg.Type).Debug("message received")

		if err := handleMessage(ctx, c, rooms, &msg); err != nil {
			if errors.Is(err, game.ErrRoomClosed) {
				c.room = nil
			}
			c.Send(game.ErrorEvent(err))
		}
	}
}

// handleMessage routes one message. Errors it returns go back to the sender.
func handleMessage(ctx context.Context, c *client, rooms *game.RoomStore, msg *ClientMessage) error {
	switch msg.Type {
	case "join":
		if c.room != nil && (msg.RoomCode == "" || msg.RoomCode == c.room.Code) {
			_, err := c.room.Join(ctx, c)
			if !errors.Is(err, game.ErrRoomClosed) {
				return err
			}
			c.room = nil
		}
		c.leaveRoom()
		room, _, err := rooms.Join(ctx, msg.RoomCode, c)
		if err != nil {
			return err
		}
		c.room = room
		return nil

	case "rejoin":
		if msg.RoomCode == "" || msg.Seat == nil {
			return fmt.Errorf("%w: rejoin needs roomCode and seat", game.ErrBadMessage)
		}
		if c.room != nil && c.room.Code != msg.RoomCode {
			c.leaveRoom()
		}
		room, err := rooms.Rejoin(ctx, msg.RoomCode, *msg.Seat, c)
		if err != nil {
			return err
		}
		c.room = room
		return nil

	case "startMatch":
		if c.room == nil {
			return game.ErrNotSeated
		}
		return c.room.StartMatch(c)

	case "action":
		if c.room == nil {
			return game.ErrNotSeated
		}
		a, err := msg.toAction()
		if err != nil {
			return err
		}
		err = c.room.Act(c, a)
		if errors.Is(err, game.ErrNotYourTurn) {
			// the room already answered with a turnCorrection
			return nil
		}
		return err

	case "requestResync":
		if c.room == nil {
			return game.ErrNotSeated
		}
		return c.room.Resync(c)

	case "ping":
		c.Send(game.GameEvent{Type: game.EventPong})
		return nil

	default:
		return fmt.Errorf("%w: unknown message type %q", game.ErrBadMessage, msg.Type)
	}
}

func (c *client) leaveRoom() {
	if c.room != nil {
		c.room.Leave(c)
		c.room = nil
	}
}

func (m *ClientMessage) toAction() (game.Action, error) {
	if m.Seat == nil {
		return game.Action{}, fmt.Errorf("%w: action needs a seat", game.ErrBadMessage)
	}
	switch m.Action {
	case game.ActionPlay, game.ActionPass:
	default:
		return game.Action{}, fmt.Errorf("%w: unknown action %q", game.ErrBadMessage, m.Action)
	}
	return game.Action{
		Seat:     *m.Seat,
		Kind:     m.Action,
		Cards:    m.Cards,
		Declared: combo.ParseType(m.DeclaredType),
	}, nil
}

// internal/handlers/client.go
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/Crayxus/crayxus-game/internal/game"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	outboxSize   = 64
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
	pingTimeout  = 15 * time.Second

	// inbound messages per second a client may sustain, and the burst above it
	readRate  = 10
	readBurst = 20
)

// client is one WebSocket connection. Rooms hold it as a game.Conn; the read loop is
// the only goroutine that touches room.
type client struct {
	id  uuid.UUID
	log *logrus.Entry

	limiter *rate.Limiter

	out       chan game.GameEvent
	done      chan struct{}
	closeOnce sync.Once

	room *game.Room
}

func newClient(id uuid.UUID, log *logrus.Entry) *client {
	return &client{
		id:      id,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(readRate), readBurst),
		out:     make(chan game.GameEvent, outboxSize),
		done:    make(chan struct{}),
	}
}

func (c *client) PlayerID() uuid.UUID {
	return c.id
}

// Send queues ev without blocking. A full queue drops the event; the client recovers
// with requestResync.
func (c *client) Send(ev game.GameEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- ev:
		return true
	default:
		c.log.WithField("type", ev.Type).Warn("outbox full, dropping event")
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// writePump drains the outbox to the socket and keeps the connection alive with pings.
func writePump(ctx context.Context, ws *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case ev := <-c.out:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := ws.Write(writeCtx, websocket.MessageText, game.EncodeEvent(ev))
			cancel()
			if err != nil {
				c.log.WithError(err).Debug("write failed, stopping write pump")
				_ = ws.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := ws.Ping(pingCtx)
			cancel()
			if err != nil {
				c.log.WithError(err).Warn("ping failed, assuming disconnect")
				_ = ws.Close(websocket.StatusGoingAway, "ping failed")
				return
			}
		}
	}
}

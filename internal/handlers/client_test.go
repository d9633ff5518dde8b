package handlers

import (
	"testing"

	"github.com/Crayxus/crayxus-game/internal/game"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestClientSendDropsWhenFull(t *testing.T) {
	c := newClient(uuid.New(), logrus.NewEntry(logrus.New()))
	for i := 0; i < outboxSize; i++ {
		assert.True(t, c.Send(game.GameEvent{Type: game.EventPong}))
	}
	assert.False(t, c.Send(game.GameEvent{Type: game.EventPong}))

	<-c.out
	assert.True(t, c.Send(game.GameEvent{Type: game.EventPong}))

	c.close()
	c.close()
	assert.False(t, c.Send(game.GameEvent{Type: game.EventPong}))
}

func TestExtractCookieToken(t *testing.T) {
	assert.Equal(t, "abc", extractCookieToken("auth_token=abc", "auth_token"))
	assert.Equal(t, "abc", extractCookieToken("theme=dark; auth_token=abc; x=1", "auth_token"))
	assert.Equal(t, "", extractCookieToken("not_auth_token=abc", "auth_token"))
	assert.Equal(t, "", extractCookieToken("", "auth_token"))
}

func TestToAction(t *testing.T) {
	seat := 2
	a, err := (&ClientMessage{Type: "action", Seat: &seat, Action: game.ActionPass}).toAction()
	assert.NoError(t, err)
	assert.Equal(t, 2, a.Seat)
	assert.Equal(t, game.ActionPass, a.Kind)

	_, err = (&ClientMessage{Type: "action", Action: game.ActionPass}).toAction()
	assert.ErrorIs(t, err, game.ErrBadMessage)

	_, err = (&ClientMessage{Type: "action", Seat: &seat, Action: "fold"}).toAction()
	assert.ErrorIs(t, err, game.ErrBadMessage)
}

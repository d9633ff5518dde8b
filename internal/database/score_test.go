package database

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLedger(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, ConnectDB(ctx, url))
	t.Cleanup(DB.Close)
	require.NoError(t, EnsureSchema(ctx, DB))

	l := NewScoreLedger(DB)
	id := uuid.New()
	t.Cleanup(func() {
		_, _ = DB.Exec(ctx, `DELETE FROM player_scores WHERE player_id = $1`, id)
	})

	score, err := l.Score(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	score, err = l.Add(ctx, id, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, score)

	score, err = l.Add(ctx, id, -15)
	require.NoError(t, err)
	assert.Equal(t, 15, score)

	score, err = l.Score(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 15, score)
}

func TestConnectDBBadURL(t *testing.T) {
	assert.Error(t, ConnectDB(context.Background(), "not a url ::"))
}

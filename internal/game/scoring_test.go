// internal/game/scoring_test.go
package game

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreDeltas(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		want  [NumSeats]int
	}{
		{"team finishes first and second", []int{0, 2, 1, 3}, [NumSeats]int{30, -15, 5, -15}},
		{"first and third", []int{1, 0, 3, 2}, [NumSeats]int{-5, 15, -5, 15}},
		{"first and fourth", []int{3, 0, 2, 1}, [NumSeats]int{-5, 5, -5, 5}},
		{"only the first finisher takes the top row", []int{2, 0, 3, 1}, [NumSeats]int{5, -15, 30, -15}},
		{"incomplete order scores nothing", []int{0, 2}, [NumSeats]int{}},
		{"duplicate seat scores nothing", []int{0, 0, 1, 2}, [NumSeats]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreDeltas(tt.order))
		})
	}
}

func TestPositionDelta(t *testing.T) {
	assert.Equal(t, 30, positionDelta(1, 2))
	assert.Equal(t, 5, positionDelta(2, 1))
	assert.Equal(t, 15, positionDelta(1, 3))
	assert.Equal(t, 15, positionDelta(3, 1))
	assert.Equal(t, 5, positionDelta(1, 4))
	assert.Equal(t, 5, positionDelta(4, 1))
	assert.Equal(t, -15, positionDelta(3, 4))
	assert.Equal(t, -5, positionDelta(2, 4))
	assert.Equal(t, -5, positionDelta(2, 3))
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	id := uuid.New()

	score, err := l.Score(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, score)

	score, err = l.Add(ctx, id, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, score)

	score, err = l.Add(ctx, id, -5)
	require.NoError(t, err)
	assert.Equal(t, 25, score)
}

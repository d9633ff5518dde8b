package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScoreLedger stores cumulative player scores in player_scores.
type ScoreLedger struct {
	pool *pgxpool.Pool
}

func NewScoreLedger(pool *pgxpool.Pool) *ScoreLedger {
	return &ScoreLedger{pool: pool}
}

// Score returns the player's total, 0 for a player never scored.
func (l *ScoreLedger) Score(ctx context.Context, playerID uuid.UUID) (int, error) {
	var score int
	err := l.pool.QueryRow(ctx, `SELECT score FROM player_scores WHERE player_id = $1`, playerID).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read score for %s: %w", playerID, err)
	}
	return score, nil
}

// Add applies delta and returns the new total.
func (l *ScoreLedger) Add(ctx context.Context, playerID uuid.UUID, delta int) (int, error) {
	var score int
	q := `
		INSERT INTO player_scores (player_id, score, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_id)
		DO UPDATE SET score = player_scores.score + EXCLUDED.score, updated_at = now()
		RETURNING score
	`
	err := pgx.BeginTxFunc(ctx, l.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, playerID, delta).Scan(&score)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add score for %s: %w", playerID, err)
	}
	return score, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BestScoreStore keeps best scores in the best_scores table.
type BestScoreStore struct {
	pool *pgxpool.Pool
}

func NewBestScoreStore(pool *pgxpool.Pool) *BestScoreStore {
	return &BestScoreStore{pool: pool}
}

func (s *BestScoreStore) BestScore(ctx context.Context, installID string) (int, error) {
	var score int
	err := s.pool.QueryRow(ctx, `SELECT score FROM best_scores WHERE install_id=$1`, installID).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	return score, nil
}

func (s *BestScoreStore) SaveBestScore(ctx context.Context, installID string, score int) (int, error) {
	var stored int
	err := s.pool.QueryRow(ctx, `
INSERT INTO best_scores (install_id, score, updated_at) VALUES ($1, $2, now())
ON CONFLICT (install_id) DO UPDATE
SET score = GREATEST(best_scores.score, EXCLUDED.score),
    updated_at = CASE WHEN EXCLUDED.score > best_scores.score THEN now() ELSE best_scores.updated_at END
RETURNING score`,
		installID, score).Scan(&stored)
	if err != nil {
		return 0, fmt.Errorf("save best score: %w", err)
	}
	return stored, nil
}

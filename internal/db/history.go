package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// DefaultHistoryLimit caps ListScoreHistory when no limit is given.
const DefaultHistoryLimit = store.DefaultHistoryLimit

// RecordScore appends a score to the user's history and returns the new record ID.
func (db *DB) RecordScore(ctx context.Context, userID uuid.UUID, score types.ProfileScore, xpAwarded int) (uuid.UUID, error) {
	sections, err := json.Marshal(score.SectionScores())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal section scores: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO score_history (user_id, overall, section_scores, xp_awarded)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, score.Overall, sections, xpAwarded,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record score: %w", err)
	}
	return id, nil
}

// ListScoreHistory returns the user's most recent scores, newest first.
func (db *DB) ListScoreHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, overall, section_scores, xp_awarded, created_at
		 FROM score_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close()

	var records []types.ScoreRecord
	for rows.Next() {
		var r types.ScoreRecord
		var sections []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.Overall, &sections, &r.XPAwarded, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		if len(sections) > 0 {
			if err := json.Unmarshal(sections, &r.SectionScores); err != nil {
				return nil, fmt.Errorf("failed to parse section scores: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score history: %w", err)
	}
	return records, nil
}

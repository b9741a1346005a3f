package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/profile-optimizer/internal/types"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS gamification_states (
		user_id    TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS score_history (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		overall        INTEGER NOT NULL,
		section_scores TEXT NOT NULL,
		xp_awarded     INTEGER NOT NULL,
		created_at     INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_score_history_user ON score_history (user_id, created_at)`,
}

// SQLiteGateway stores states in a local SQLite database.
type SQLiteGateway struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteGateway, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite wants a single writer
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close() //nolint:errcheck
			return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}

	return &SQLiteGateway{db: db}, nil
}

// Load reads the user's state, or nil if none.
func (s *SQLiteGateway) Load(ctx context.Context, userID uuid.UUID) (*types.GamificationState, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM gamification_states WHERE user_id = ?`,
		userID.String(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load gamification state: %w", err)
	}
	return Decode([]byte(data))
}

// Save upserts the user's state.
func (s *SQLiteGateway) Save(ctx context.Context, userID uuid.UUID, state types.GamificationState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO gamification_states (user_id, state, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		userID.String(), string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save gamification state: %w", err)
	}
	return nil
}

// RecordScore appends a score history row.
func (s *SQLiteGateway) RecordScore(ctx context.Context, userID uuid.UUID, score types.ProfileScore, xpAwarded int) (uuid.UUID, error) {
	sections, err := json.Marshal(score.SectionScores())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal section scores: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO score_history (id, user_id, overall, section_scores, xp_awarded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), userID.String(), score.Overall, string(sections), xpAwarded, time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record score: %w", err)
	}
	return id, nil
}

// ListScoreHistory returns up to limit rows for userID, newest first.
func (s *SQLiteGateway) ListScoreHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, overall, section_scores, xp_awarded, created_at
		 FROM score_history WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var records []types.ScoreRecord
	for rows.Next() {
		var (
			id, sections string
			createdAt    int64
			record       types.ScoreRecord
		)
		if err := rows.Scan(&id, &record.Overall, &sections, &record.XPAwarded, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan score history: %w", err)
		}
		if record.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid score history id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(sections), &record.SectionScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal section scores: %w", err)
		}
		record.UserID = userID
		record.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *SQLiteGateway) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ History = (*SQLiteGateway)(nil)

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// LoadGamificationState retrieves a user's state, or nil if none has been saved.
func (db *DB) LoadGamificationState(ctx context.Context, userID uuid.UUID) (*types.GamificationState, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT state FROM gamification_states WHERE user_id = $1`,
		userID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load gamification state: %w", err)
	}
	return store.Decode(content)
}

// SaveGamificationState upserts a user's state.
func (db *DB) SaveGamificationState(ctx context.Context, userID uuid.UUID, state types.GamificationState) error {
	jsonBytes, err := store.Encode(state)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO gamification_states (user_id, state)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET state = $2, updated_at = NOW()`,
		userID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save gamification state: %w", err)
	}
	return nil
}

// Load implements store.Gateway.
func (db *DB) Load(ctx context.Context, userID uuid.UUID) (*types.GamificationState, error) {
	return db.LoadGamificationState(ctx, userID)
}

// Save implements store.Gateway.
func (db *DB) Save(ctx context.Context, userID uuid.UUID, state types.GamificationState) error {
	return db.SaveGamificationState(ctx, userID, state)
}

var _ store.Gateway = (*DB)(nil)

// Backend adapts DB to store.Backend.
type Backend struct {
	*DB
}

// Close closes the pool.
func (b Backend) Close() error {
	b.DB.Close()
	return nil
}

var (
	_ store.Backend = Backend{}
	_ store.History = (*DB)(nil)
)

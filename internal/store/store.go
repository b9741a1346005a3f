// Package store persists gamification state. Backends share one JSON encoding
// that carries a schema version, so a state written by any backend reads back the same.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// ErrUnsupportedVersion is returned when a stored state was written by a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported state schema version")

// LocalUser keys the state of the single local user of the CLI.
var LocalUser = uuid.Nil

// Gateway loads and saves gamification state. Load returns nil, nil when no state has been saved.
// Callers serialize load-apply-save for a user; backends only guarantee each call is atomic.
type Gateway interface {
	Load(ctx context.Context, userID uuid.UUID) (*types.GamificationState, error)
	Save(ctx context.Context, userID uuid.UUID, state types.GamificationState) error
}

// Backend is a Gateway holding resources that must be released.
type Backend interface {
	Gateway
	Close() error
}

// LoadOrNew loads the state for userID, or returns a fresh state when none is stored.
func LoadOrNew(ctx context.Context, gw Gateway, userID uuid.UUID) (types.GamificationState, error) {
	state, err := gw.Load(ctx, userID)
	if err != nil {
		return types.GamificationState{}, err
	}
	if state == nil {
		return types.NewGamificationState(), nil
	}
	return *state, nil
}

// Encode serializes state at the current schema version.
func Encode(state types.GamificationState) ([]byte, error) {
	state = Normalize(state)
	state.SchemaVersion = types.CurrentStateSchemaVersion
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gamification state: %w", err)
	}
	return data, nil
}

// Decode parses a stored state. A missing version is read as version 1.
func Decode(data []byte) (*types.GamificationState, error) {
	var state types.GamificationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse gamification state: %w", err)
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = 1
	}
	if state.SchemaVersion > types.CurrentStateSchemaVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedVersion, state.SchemaVersion, types.CurrentStateSchemaVersion)
	}

	state = Normalize(state)
	return &state, nil
}

// Normalize clamps negative counters to zero and sorts and de-duplicates achievements.
func Normalize(state types.GamificationState) types.GamificationState {
	if state.XP < 0 {
		state.XP = 0
	}
	if state.OptimizationsCompleted < 0 {
		state.OptimizationsCompleted = 0
	}
	if state.SuggestionsAccepted < 0 {
		state.SuggestionsAccepted = 0
	}
	if state.TotalScoreImprovement < 0 {
		state.TotalScoreImprovement = 0
	}
	state.UnlockedAchievements = types.SortedAchievements(state.UnlockedAchievements)
	return state
}

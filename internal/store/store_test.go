package store

import (
	"testing"

	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MissingVersionReadsAsOne(t *testing.T) {
	state, err := Decode([]byte(`{"xp": 120, "unlocked_achievements": ["headline_hero", "first_optimization"]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, state.SchemaVersion)
	assert.Equal(t, 120, state.XP)
	assert.Equal(t, []types.AchievementID{"first_optimization", "headline_hero"}, state.UnlockedAchievements)
}

func TestDecode_NewerVersionRejected(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version": 2, "xp": 10}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"xp":`))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	state := Normalize(types.GamificationState{
		XP:                     -5,
		OptimizationsCompleted: -1,
		SuggestionsAccepted:    -2,
		TotalScoreImprovement:  -3,
		UnlockedAchievements:   []types.AchievementID{"well_rounded", "ats_ready", "well_rounded", ""},
	})

	assert.Equal(t, 0, state.XP)
	assert.Equal(t, 0, state.OptimizationsCompleted)
	assert.Equal(t, 0, state.SuggestionsAccepted)
	assert.Equal(t, 0, state.TotalScoreImprovement)
	assert.Equal(t, []types.AchievementID{"ats_ready", "well_rounded"}, state.UnlockedAchievements)
}

func TestEncodeDecode_PreservesState(t *testing.T) {
	original := types.GamificationState{
		SchemaVersion:          1,
		XP:                     345,
		UnlockedAchievements:   []types.AchievementID{"first_optimization", "keyword_master"},
		OptimizationsCompleted: 4,
		SuggestionsAccepted:    7,
		TotalScoreImprovement:  22,
	}

	data, err := Encode(original)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
	assert.Equal(t, 4, decoded.Level())
}

func TestEncode_StampsCurrentVersion(t *testing.T) {
	data, err := Encode(types.GamificationState{XP: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schema_version":1`)
}

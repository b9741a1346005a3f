package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGamificationState(t *testing.T) {
	state := NewGamificationState()
	assert.Equal(t, CurrentStateSchemaVersion, state.SchemaVersion)
	assert.Equal(t, 0, state.XP)
	assert.Equal(t, 1, state.Level())
	assert.NotNil(t, state.UnlockedAchievements)
}

func TestGamificationState_Level(t *testing.T) {
	tests := []struct {
		xp    int
		level int
	}{
		{xp: -50, level: 1},
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 450, level: 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, GamificationState{XP: tt.xp}.Level(), "xp=%d", tt.xp)
	}
}

func TestGamificationState_JSONHasNoLevel(t *testing.T) {
	state := NewGamificationState()
	state.XP = 250

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"level"`)
	assert.Contains(t, string(data), `"unlocked_achievements":[]`)
}

func TestGamificationState_HasAchievement(t *testing.T) {
	state := GamificationState{UnlockedAchievements: []AchievementID{"first_analysis"}}
	assert.True(t, state.HasAchievement("first_analysis"))
	assert.False(t, state.HasAchievement("score_90"))
}

func TestSortedAchievements(t *testing.T) {
	in := []AchievementID{"skills_master", "", "first_analysis", "skills_master"}
	out := SortedAchievements(in)

	assert.Equal(t, []AchievementID{"first_analysis", "skills_master"}, out)
	assert.Len(t, in, 4, "input is not modified")
	assert.Empty(t, SortedAchievements(nil))
}

func TestStats_Section(t *testing.T) {
	assert.Equal(t, 0, Stats{}.Section(SectionHeadline))

	stats := Stats{SectionScores: map[Section]int{SectionHeadline: 72}}
	assert.Equal(t, 72, stats.Section(SectionHeadline))
	assert.Equal(t, 0, stats.Section(SectionAbout))
}

package gamification

import (
	"math"
	"testing"

	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestApplyScoringEvent_FirstAnalysis(t *testing.T) {
	state := types.NewGamificationState()
	next := ApplyScoringEvent(state, types.ScoringEvent{OverallScore: 92, IsFirstAnalysis: true})

	assert.Equal(t, 100, next.XP)
	assert.Equal(t, 2, next.Level())
	assert.Equal(t, 1, next.OptimizationsCompleted)
}

func TestEvaluate_ReportsOutcome(t *testing.T) {
	state := types.GamificationState{XP: 80}
	outcome := Evaluate(state, types.ScoringEvent{
		OverallScore: 86,
		Stats:        types.Stats{OverallScore: 86},
	})

	assert.Equal(t, 30, outcome.XPAwarded)
	assert.Equal(t, 110, outcome.State.XP)
	assert.True(t, outcome.LeveledUp)
	assert.Equal(t, 1, outcome.PreviousLevel)

	ids := make([]types.AchievementID, 0, len(outcome.NewlyUnlocked))
	for _, a := range outcome.NewlyUnlocked {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []types.AchievementID{AchievementFirstOptimization, AchievementHighAchiever}, ids)
	assert.Equal(t, []types.AchievementID{AchievementFirstOptimization, AchievementHighAchiever}, outcome.State.UnlockedAchievements)
}

func TestEvaluate_AchievementRewardsNotCredited(t *testing.T) {
	outcome := Evaluate(types.NewGamificationState(), types.ScoringEvent{
		OverallScore: 50,
		Stats:        types.Stats{OverallScore: 50, ATSCompatible: true, KeywordMatchPercent: 90},
	})

	assert.Equal(t, 0, outcome.XPAwarded)
	assert.Equal(t, 0, outcome.State.XP)
	assert.Len(t, outcome.NewlyUnlocked, 3)
}

func TestApplyScoringEvent_AchievementIdempotence(t *testing.T) {
	stats := types.Stats{
		OverallScore: 95,
		SectionScores: map[types.Section]int{
			types.SectionHeadline: 95, types.SectionAbout: 80, types.SectionExperience: 90,
			types.SectionSkills: 75, types.SectionEducation: 70,
		},
		ATSCompatible:       true,
		KeywordMatchPercent: 85,
	}
	event := types.ScoringEvent{OverallScore: 95, Stats: stats}

	first := ApplyScoringEvent(types.NewGamificationState(), event)
	require.Len(t, first.UnlockedAchievements, len(Achievements()))

	second := Evaluate(first, event)
	assert.Empty(t, second.NewlyUnlocked)
	assert.Equal(t, first.UnlockedAchievements, second.State.UnlockedAchievements)
}

func TestApplyScoringEvent_Monotonic(t *testing.T) {
	state := types.NewGamificationState()
	events := []types.ScoringEvent{
		{OverallScore: 95, IsFirstAnalysis: true, Stats: types.Stats{OverallScore: 95, ATSCompatible: true}},
		{OverallScore: 10, Stats: types.Stats{}},
		{OverallScore: 65, Stats: types.Stats{KeywordMatchPercent: 10}},
		{OverallScore: 0, Stats: types.Stats{}},
	}

	for _, event := range events {
		next := ApplyScoringEvent(state, event)
		assert.GreaterOrEqual(t, next.XP, state.XP)
		assert.GreaterOrEqual(t, len(next.UnlockedAchievements), len(state.UnlockedAchievements))
		for _, id := range state.UnlockedAchievements {
			assert.True(t, next.HasAchievement(id), "achievement %s was revoked", id)
		}
		assert.Equal(t, next.XP/100+1, next.Level())
		state = next
	}
}

func TestApplyScoringEvent_DoesNotMutateInput(t *testing.T) {
	state := types.GamificationState{
		SchemaVersion:        types.CurrentStateSchemaVersion,
		XP:                   40,
		UnlockedAchievements: make([]types.AchievementID, 1, 8),
	}
	state.UnlockedAchievements[0] = AchievementATSReady

	ApplyScoringEvent(state, types.ScoringEvent{OverallScore: 90, Stats: types.Stats{OverallScore: 90}})

	assert.Equal(t, 40, state.XP)
	assert.Equal(t, []types.AchievementID{AchievementATSReady}, state.UnlockedAchievements)
	assert.Equal(t, types.AchievementID(""), state.UnlockedAchievements[:2][1], "backing array must not be written")
}

func TestApplyScoringEvent_Counters(t *testing.T) {
	state := types.GamificationState{OptimizationsCompleted: 2, SuggestionsAccepted: 3, TotalScoreImprovement: 7}

	next := ApplyScoringEvent(state, types.ScoringEvent{
		OverallScore:        70,
		PreviousOverall:     intPtr(62),
		SuggestionsAccepted: 2,
	})
	assert.Equal(t, 3, next.OptimizationsCompleted)
	assert.Equal(t, 5, next.SuggestionsAccepted)
	assert.Equal(t, 15, next.TotalScoreImprovement)

	regressed := ApplyScoringEvent(next, types.ScoringEvent{
		OverallScore:        50,
		PreviousOverall:     intPtr(70),
		SuggestionsAccepted: -4,
	})
	assert.Equal(t, 15, regressed.TotalScoreImprovement)
	assert.Equal(t, 5, regressed.SuggestionsAccepted)
}

func TestApplyScoringEvent_NegativeXPTreatedAsZero(t *testing.T) {
	next := ApplyScoringEvent(types.GamificationState{XP: -30}, types.ScoringEvent{OverallScore: 60})
	assert.Equal(t, 10, next.XP)
}

func TestAchievementByID(t *testing.T) {
	a, ok := AchievementByID(AchievementKeywordMaster)
	require.True(t, ok)
	assert.Equal(t, 75, a.XPReward)
	assert.True(t, a.Unlocked(types.Stats{KeywordMatchPercent: 80}))
	assert.False(t, a.Unlocked(types.Stats{KeywordMatchPercent: 79.9}))

	_, ok = AchievementByID("nope")
	assert.False(t, ok)
}

func TestWellRoundedRequiresEveryCoreSection(t *testing.T) {
	a, ok := AchievementByID(AchievementWellRounded)
	require.True(t, ok)

	stats := types.Stats{SectionScores: map[types.Section]int{
		types.SectionHeadline: 70, types.SectionAbout: 70, types.SectionExperience: 70, types.SectionSkills: 70,
	}}
	assert.False(t, a.Unlocked(stats))

	stats.SectionScores[types.SectionEducation] = 70
	assert.True(t, a.Unlocked(stats))
}

func TestEvaluate_OverallScoreComesFromEvent(t *testing.T) {
	outcome := Evaluate(types.NewGamificationState(), types.ScoringEvent{OverallScore: 92, IsFirstAnalysis: true})
	assert.Equal(t, []types.AchievementID{AchievementFirstOptimization, AchievementHighAchiever}, outcome.State.UnlockedAchievements)

	inconsistent := Evaluate(types.NewGamificationState(), types.ScoringEvent{
		OverallScore: 10,
		Stats:        types.Stats{OverallScore: 95},
	})
	assert.Equal(t, []types.AchievementID{AchievementFirstOptimization}, inconsistent.State.UnlockedAchievements)
}

func TestApplyScoringEvent_SaturatesAtMaxInt(t *testing.T) {
	state := types.GamificationState{
		XP:                     math.MaxInt - 10,
		OptimizationsCompleted: math.MaxInt,
		SuggestionsAccepted:    math.MaxInt - 1,
		TotalScoreImprovement:  math.MaxInt - 5,
	}
	next := ApplyScoringEvent(state, types.ScoringEvent{
		OverallScore:        95,
		IsFirstAnalysis:     true,
		PreviousOverall:     intPtr(math.MinInt),
		SuggestionsAccepted: 3,
	})

	assert.Equal(t, math.MaxInt, next.XP)
	assert.Equal(t, Level(math.MaxInt), next.Level())
	assert.Greater(t, next.Level(), 1)
	assert.Equal(t, math.MaxInt, next.OptimizationsCompleted)
	assert.Equal(t, math.MaxInt, next.SuggestionsAccepted)
	assert.Equal(t, math.MaxInt, next.TotalScoreImprovement)
}

func TestApplyScoringEvent_ImprovementUsesScoreRange(t *testing.T) {
	next := ApplyScoringEvent(types.NewGamificationState(), types.ScoringEvent{
		OverallScore:    80,
		PreviousOverall: intPtr(-40),
	})
	assert.Equal(t, 80, next.TotalScoreImprovement)
}

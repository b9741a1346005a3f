package gamification

import (
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Outcome is the result of applying one scoring event.
type Outcome struct {
	State         types.GamificationState `json:"state"`
	XPAwarded     int                     `json:"xp_awarded"`
	NewlyUnlocked []Achievement           `json:"newly_unlocked"`
	LeveledUp     bool                    `json:"leveled_up"`
	PreviousLevel int                     `json:"previous_level"`
}

// Evaluate applies a scoring event to state and reports what changed.
// The input state is not modified. XP never decreases and achievements are never revoked.
// Achievement rewards are reported in NewlyUnlocked but not added to XP.
func Evaluate(state types.GamificationState, event types.ScoringEvent) Outcome {
	previousXP := nonNegative(state.XP)

	awarded := XPRewardForScore(event.OverallScore)
	if event.IsFirstAnalysis {
		awarded += FirstAnalysisBonus
	}

	next := types.GamificationState{
		SchemaVersion:          types.CurrentStateSchemaVersion,
		XP:                     saturatingAdd(previousXP, awarded),
		OptimizationsCompleted: saturatingAdd(nonNegative(state.OptimizationsCompleted), 1),
		SuggestionsAccepted:    saturatingAdd(nonNegative(state.SuggestionsAccepted), nonNegative(event.SuggestionsAccepted)),
		TotalScoreImprovement:  nonNegative(state.TotalScoreImprovement),
	}
	if event.PreviousOverall != nil {
		if gain := clampScore(event.OverallScore) - clampScore(*event.PreviousOverall); gain > 0 {
			next.TotalScoreImprovement = saturatingAdd(next.TotalScoreImprovement, gain)
		}
	}

	// The event's overall score is authoritative over the snapshot's copy.
	snapshot := event.Stats
	snapshot.OverallScore = event.OverallScore
	if snapshot.OptimizationsCompleted < next.OptimizationsCompleted {
		snapshot.OptimizationsCompleted = next.OptimizationsCompleted
	}

	unlocked := make([]types.AchievementID, 0, len(state.UnlockedAchievements)+len(achievements))
	unlocked = append(unlocked, state.UnlockedAchievements...)
	newly := make([]Achievement, 0)
	for _, a := range achievements {
		if state.HasAchievement(a.ID) || !a.Unlocked(snapshot) {
			continue
		}
		newly = append(newly, a)
		unlocked = append(unlocked, a.ID)
	}
	next.UnlockedAchievements = types.SortedAchievements(unlocked)

	previousLevel := Level(previousXP)
	return Outcome{
		State:         next,
		XPAwarded:     awarded,
		NewlyUnlocked: newly,
		LeveledUp:     Level(next.XP) > previousLevel,
		PreviousLevel: previousLevel,
	}
}

// ApplyScoringEvent returns the state after applying event.
func ApplyScoringEvent(state types.GamificationState, event types.ScoringEvent) types.GamificationState {
	return Evaluate(state, event).State
}

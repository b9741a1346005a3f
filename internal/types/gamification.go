package types

import "sort"

// AchievementID identifies a built-in achievement.
type AchievementID string

// CurrentStateSchemaVersion is the version written with every persisted GamificationState.
const CurrentStateSchemaVersion = 1

// GamificationState is the persisted progression of a single user.
// Level is derived from XP and never stored.
type GamificationState struct {
	SchemaVersion          int             `json:"schema_version"`
	XP                     int             `json:"xp"`
	UnlockedAchievements   []AchievementID `json:"unlocked_achievements"` // Sorted, no duplicates
	OptimizationsCompleted int             `json:"optimizations_completed"`
	SuggestionsAccepted    int             `json:"suggestions_accepted"`
	TotalScoreImprovement  int             `json:"total_score_improvement"`
}

// NewGamificationState returns the initial state (xp=0, level=1).
func NewGamificationState() GamificationState {
	return GamificationState{
		SchemaVersion:        CurrentStateSchemaVersion,
		UnlockedAchievements: []AchievementID{},
	}
}

// Level returns the level derived from XP.
func (s GamificationState) Level() int {
	xp := s.XP
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

// HasAchievement reports whether id is already unlocked.
func (s GamificationState) HasAchievement(id AchievementID) bool {
	for _, a := range s.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// SortedAchievements returns a sorted, de-duplicated copy of ids.
func SortedAchievements(ids []AchievementID) []AchievementID {
	seen := make(map[AchievementID]bool, len(ids))
	out := make([]AchievementID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats is the snapshot achievement and challenge predicates are evaluated against.
// It is supplied by the caller alongside a scoring event.
type Stats struct {
	OverallScore           int             `json:"overall_score"`
	SectionScores          map[Section]int `json:"section_scores,omitempty"`
	SkillsCount            int             `json:"skills_count"`
	ATSCompatible          bool            `json:"ats_compatible"`
	KeywordMatchPercent    float64         `json:"keyword_match_percent"`
	OptimizationsCompleted int             `json:"optimizations_completed"`
}

// Section returns the score for a section, or 0 if absent.
func (s Stats) Section(section Section) int {
	if s.SectionScores == nil {
		return 0
	}
	return s.SectionScores[section]
}

// ScoringEvent is the single input that drives gamification state transitions.
type ScoringEvent struct {
	OverallScore        int   `json:"overall_score" validate:"gte=0,lte=100"`
	IsFirstAnalysis     bool  `json:"is_first_analysis"`
	Stats               Stats `json:"stats"`
	PreviousOverall     *int  `json:"previous_overall,omitempty"`
	SuggestionsAccepted int   `json:"suggestions_accepted,omitempty"`
}

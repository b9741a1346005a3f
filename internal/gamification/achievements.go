package gamification

import (
	"github.com/jonathan/profile-optimizer/internal/types"
)

// Built-in achievement identifiers. They are persisted, so never rename one.
const (
	AchievementFirstOptimization types.AchievementID = "first_optimization"
	AchievementHeadlineHero      types.AchievementID = "headline_hero"
	AchievementWellRounded       types.AchievementID = "well_rounded"
	AchievementHighAchiever      types.AchievementID = "high_achiever"
	AchievementATSReady          types.AchievementID = "ats_ready"
	AchievementKeywordMaster     types.AchievementID = "keyword_master"
)

// Achievement is a one-way unlock keyed to a predicate over a stats snapshot.
type Achievement struct {
	ID          types.AchievementID `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	XPReward    int                 `json:"xp_reward"`

	predicate func(types.Stats) bool
}

// Unlocked reports whether stats satisfy the achievement.
func (a Achievement) Unlocked(stats types.Stats) bool {
	return a.predicate != nil && a.predicate(stats)
}

// coreSections must all reach wellRoundedThreshold for the well-rounded achievement.
var coreSections = []types.Section{
	types.SectionHeadline,
	types.SectionAbout,
	types.SectionExperience,
	types.SectionSkills,
	types.SectionEducation,
}

const wellRoundedThreshold = 70

var achievements = []Achievement{
	{
		ID:          AchievementFirstOptimization,
		Name:        "First Steps",
		Description: "Complete your first profile optimization",
		XPReward:    25,
		predicate: func(s types.Stats) bool {
			return s.OptimizationsCompleted >= 1 || s.OverallScore > 0
		},
	},
	{
		ID:          AchievementHeadlineHero,
		Name:        "Headline Hero",
		Description: "Reach a headline score of 90 or more",
		XPReward:    50,
		predicate: func(s types.Stats) bool {
			return s.Section(types.SectionHeadline) >= 90
		},
	},
	{
		ID:          AchievementWellRounded,
		Name:        "Well Rounded",
		Description: "Score 70 or more in headline, about, experience, skills and education",
		XPReward:    75,
		predicate: func(s types.Stats) bool {
			for _, section := range coreSections {
				if s.Section(section) < wellRoundedThreshold {
					return false
				}
			}
			return true
		},
	},
	{
		ID:          AchievementHighAchiever,
		Name:        "High Achiever",
		Description: "Reach an overall score of 85 or more",
		XPReward:    100,
		predicate: func(s types.Stats) bool {
			return s.OverallScore >= 85
		},
	},
	{
		ID:          AchievementATSReady,
		Name:        "ATS Ready",
		Description: "Make every section readable by applicant tracking systems",
		XPReward:    50,
		predicate: func(s types.Stats) bool {
			return s.ATSCompatible
		},
	},
	{
		ID:          AchievementKeywordMaster,
		Name:        "Keyword Master",
		Description: "Match at least 80% of the target keywords",
		XPReward:    75,
		predicate: func(s types.Stats) bool {
			return s.KeywordMatchPercent >= 80
		},
	},
}

// Achievements returns the built-in achievements in evaluation order.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// AchievementByID looks up a built-in achievement.
func AchievementByID(id types.AchievementID) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

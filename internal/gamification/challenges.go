package gamification

import (
	"time"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// Challenge is a daily goal checked by comparing stats before and after an edit.
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XPReward    int    `json:"xp_reward"`

	check func(before, after types.Stats) bool
}

// sectionGain builds a check for a section score increase of at least minGain.
func sectionGain(section types.Section, minGain int) func(before, after types.Stats) bool {
	return func(before, after types.Stats) bool {
		return after.Section(section)-before.Section(section) >= minGain
	}
}

var challenges = []Challenge{
	{
		ID:          "headline_boost",
		Title:       "Headline Boost",
		Description: "Raise your headline score by 10 points",
		XPReward:    20,
		check:       sectionGain(types.SectionHeadline, 10),
	},
	{
		ID:          "about_refresh",
		Title:       "About Refresh",
		Description: "Raise your About score by 10 points",
		XPReward:    20,
		check:       sectionGain(types.SectionAbout, 10),
	},
	{
		ID:          "experience_polish",
		Title:       "Experience Polish",
		Description: "Raise your experience score by 5 points",
		XPReward:    25,
		check:       sectionGain(types.SectionExperience, 5),
	},
	{
		ID:          "skills_sharpen",
		Title:       "Sharpen Your Skills",
		Description: "Raise your skills score by 10 points",
		XPReward:    20,
		check:       sectionGain(types.SectionSkills, 10),
	},
	{
		ID:          "overall_climb",
		Title:       "Overall Climb",
		Description: "Raise your overall score by 5 points",
		XPReward:    30,
		check: func(before, after types.Stats) bool {
			return after.OverallScore-before.OverallScore >= 5
		},
	},
}

// DailyChallenge returns the challenge for the calendar day of date.
func DailyChallenge(date time.Time) Challenge {
	return challenges[date.YearDay()%len(challenges)]
}

// Today returns the challenge for the clock's current day.
func Today(clock Clock) Challenge {
	return DailyChallenge(clock.Now())
}

// CheckChallengeComplete reports whether the change from before to after completes challenge.
// A challenge decoded from JSON carries no check and is resolved by ID.
func CheckChallengeComplete(challenge Challenge, before, after types.Stats) bool {
	check := challenge.check
	if check == nil {
		builtin, ok := ChallengeByID(challenge.ID)
		if !ok {
			return false
		}
		check = builtin.check
	}
	return check(before, after)
}

// ChallengeByID looks up a built-in challenge.
func ChallengeByID(id string) (Challenge, bool) {
	for _, c := range challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}

// Challenges returns every built-in challenge in rotation order.
func Challenges() []Challenge {
	out := make([]Challenge, len(challenges))
	copy(out, challenges)
	return out
}

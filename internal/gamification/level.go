// Package gamification derives levels from experience points and evaluates
// achievements and daily challenges against score snapshots.
package gamification

import "math"

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 100

// FirstAnalysisBonus is awarded once, on the first analysis of a profile.
const FirstAnalysisBonus = 50

// rewardTiers maps a minimum overall score to the XP it earns, highest first.
var rewardTiers = []struct {
	minScore int
	xp       int
}{
	{90, 50},
	{80, 30},
	{70, 20},
	{60, 10},
}

// Level returns the level for xp. Level 1 starts at 0 XP; negative XP counts as 0.
func Level(xp int) int {
	return nonNegative(xp)/XPPerLevel + 1
}

// LevelProgress returns the XP earned within the current level.
func LevelProgress(xp int) int {
	return nonNegative(xp) % XPPerLevel
}

// XPToNextLevel returns the XP still needed to reach the next level.
func XPToNextLevel(xp int) int {
	return XPPerLevel - LevelProgress(xp)
}

// XPRewardForScore returns the XP earned for an analysis with the given overall score.
func XPRewardForScore(score int) int {
	for _, tier := range rewardTiers {
		if score >= tier.minScore {
			return tier.xp
		}
	}
	return 0
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// saturatingAdd adds two non-negative values, stopping at math.MaxInt.
func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// clampScore limits an overall score to 0-100.
func clampScore(score int) int {
	return min(max(score, 0), 100)
}

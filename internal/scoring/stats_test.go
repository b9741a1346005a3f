package scoring

import (
	"testing"

	"github.com/jonathan/profile-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildStats(t *testing.T) {
	profile := sampleProfile()
	ctx := sampleContext()
	score := ScoreAll(profile, ctx)

	stats := BuildStats(profile, ctx, score)

	assert.Equal(t, score.Overall, stats.OverallScore)
	assert.Equal(t, len(profile.Skills), stats.SkillsCount)
	assert.Equal(t, score.Sections[types.SectionHeadline].Score, stats.Section(types.SectionHeadline))
	assert.Equal(t, 100.0, stats.KeywordMatchPercent)
	assert.True(t, stats.ATSCompatible)
	assert.Zero(t, stats.OptimizationsCompleted)
}

func TestBuildStats_KeywordMatchPercent(t *testing.T) {
	profile := &types.Profile{Headline: "Go engineer", Skills: []string{"Kafka"}}
	ctx := types.JobContext{Keywords: []string{"Go", "Kafka", "Rust", "Redis", " "}}

	stats := BuildStats(profile, ctx, ScoreAll(profile, ctx))
	assert.InDelta(t, 50.0, stats.KeywordMatchPercent, 0.0001)
}

func TestBuildStats_ATSCompatibility(t *testing.T) {
	tests := []struct {
		name     string
		profile  *types.Profile
		expected bool
	}{
		{
			name:     "missing headline",
			profile:  &types.Profile{Experiences: []types.Experience{{Title: "Engineer"}}},
			expected: false,
		},
		{
			name:     "missing experience",
			profile:  &types.Profile{Headline: "Engineer"},
			expected: false,
		},
		{
			name: "decorative glyphs",
			profile: &types.Profile{
				Headline:    "★ Engineer ★",
				Experiences: []types.Experience{{Title: "Engineer"}},
			},
			expected: false,
		},
		{
			name: "glyph in a bullet",
			profile: &types.Profile{
				Headline:    "Engineer",
				Experiences: []types.Experience{{Title: "Engineer", Bullets: []string{"➤ Built APIs"}}},
			},
			expected: false,
		},
		{
			name: "plain text",
			profile: &types.Profile{
				Headline:    "Engineer",
				Experiences: []types.Experience{{Title: "Engineer", Bullets: []string{"Built APIs"}}},
			},
			expected: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := BuildStats(tt.profile, types.JobContext{}, types.ProfileScore{})
			assert.Equal(t, tt.expected, stats.ATSCompatible)
		})
	}
}

func TestBuildStats_NilProfile(t *testing.T) {
	stats := BuildStats(nil, sampleContext(), types.ProfileScore{})
	assert.Equal(t, 0.0, stats.KeywordMatchPercent)
	assert.False(t, stats.ATSCompatible)
	assert.Zero(t, stats.SkillsCount)
}

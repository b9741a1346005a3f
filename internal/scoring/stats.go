package scoring

import (
	"strings"

	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// BuildStats derives the snapshot that achievement and challenge predicates read.
// OptimizationsCompleted is left for the caller, which owns the gamification state.
func (s *Scorer) BuildStats(profile *types.Profile, ctx types.JobContext, score types.ProfileScore) types.Stats {
	if profile == nil {
		profile = &types.Profile{}
	}

	stats := types.Stats{
		OverallScore:  score.Overall,
		SectionScores: score.SectionScores(),
		SkillsCount:   len(nonBlank(profile.Skills)),
	}

	kws := nonBlank(ctx.Keywords)
	if len(kws) > 0 {
		matched := keywords.Matched(profileText(profile), kws)
		stats.KeywordMatchPercent = float64(len(matched)) * 100 / float64(len(kws))
	}

	stats.ATSCompatible = s.atsCompatible(profile)
	return stats
}

// BuildStats derives a stats snapshot with the default scorer.
func BuildStats(profile *types.Profile, ctx types.JobContext, score types.ProfileScore) types.Stats {
	return defaultScorer.BuildStats(profile, ctx, score)
}

// atsCompatible reports whether the parsed-text sections are free of decorative glyphs
// that applicant tracking systems mangle, and the sections they key on exist.
func (s *Scorer) atsCompatible(profile *types.Profile) bool {
	if !nonEmpty(profile.Headline) || len(filledExperiences(profile.Experiences)) == 0 {
		return false
	}

	texts := []string{profile.Headline, profile.About}
	for _, exp := range profile.Experiences {
		texts = append(texts, exp.Title)
		texts = append(texts, exp.Bullets...)
	}
	for _, text := range texts {
		for _, glyph := range s.vocab.ATSHostileGlyphs {
			if glyph != "" && strings.Contains(text, glyph) {
				return false
			}
		}
	}
	return true
}

// profileText concatenates every free-text field of a profile.
func profileText(profile *types.Profile) string {
	var b strings.Builder
	write := func(parts ...string) {
		for _, p := range parts {
			if p != "" {
				b.WriteString(p)
				b.WriteString("\n")
			}
		}
	}

	write(profile.Headline, profile.About)
	for _, exp := range profile.Experiences {
		write(exp.Title, exp.Company)
		write(exp.Bullets...)
	}
	write(profile.Skills...)
	for _, edu := range profile.Education {
		write(edu.School, edu.Degree, edu.Field)
		write(edu.Coursework...)
	}
	for _, c := range profile.Certifications {
		write(c.Name, c.Issuer)
	}
	for _, v := range profile.Volunteering {
		write(v.Role, v.Organization, v.Cause, v.Description)
	}
	for _, item := range profile.Featured {
		write(item.Title)
	}
	write(profile.Interests...)
	return b.String()
}

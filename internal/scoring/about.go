package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var aboutWeights = []factorWeight{
	{"length", 0.10},
	{"hook", 0.15},
	{"achievements", 0.20},
	{"keywords", 0.25},
	{"storyArc", 0.15},
	{"cta", 0.10},
	{"readability", 0.05},
}

const (
	hookLength           = 200
	pointsPerAchievement = 25.0
)

// ScoreAbout scores the About/summary section.
func (s *Scorer) ScoreAbout(about string, ctx types.JobContext) types.ScoreResult {
	if !nonEmpty(about) {
		return emptyResult("No About section provided")
	}

	kws := keywords.Union(ctx.Keywords, s.vocab.DefaultKeywords[types.SectionAbout])

	b := newResultBuilder()
	b.set(aboutLengthFactor(runeLen(about)))
	b.set(s.hookFactor(prefixRunes(about, hookLength), kws))

	achievements := s.vocab.CountMetrics(about)
	achievementsIssue := ""
	if achievements == 0 {
		achievementsIssue = "Add quantified achievements (numbers, percentages, revenue) to your About section"
	} else if achievements < 3 {
		achievementsIssue = "Add a few more measurable results to your About section"
	}
	b.set("achievements", float64(achievements)*pointsPerAchievement, achievementsIssue)

	kwScore := keywords.Score(about, kws)
	kwIssue := ""
	if kwScore < 50 {
		kwIssue = "Work more target-role keywords into your About section"
	}
	b.set("keywords", kwScore, kwIssue)

	b.set(s.storyArcFactor(about))

	if containsAnyWord(about, s.vocab.CTAWords) {
		b.set("cta", 100, "")
	} else {
		b.set("cta", 40, "End with a call to action inviting readers to connect")
	}

	b.set(readabilityFactor(about))

	return b.build(aboutWeights, 1)
}

func aboutLengthFactor(chars int) (string, float64, string) {
	switch {
	case chars >= 1000 && chars <= 2600:
		return "length", 100, ""
	case chars >= 500 && chars < 1000:
		return "length", 75, "About section could be more detailed; aim for at least 1,000 characters"
	case chars < 500:
		return "length", 40, "About section is too short; aim for 1,000-2,600 characters"
	default:
		return "length", 50, "About section exceeds the 2,600 character limit"
	}
}

// hookFactor scores the opening that is visible before "see more".
func (s *Scorer) hookFactor(hook string, kws []string) (string, float64, string) {
	score := 40.0
	if containsAnyWord(hook, s.vocab.HookWords) || strings.ContainsAny(hook, "?!") {
		score += 30
	}
	if s.vocab.HasMetric(hook) {
		score += 15
	}
	if len(keywords.Matched(hook, kws)) > 0 {
		score += 15
	}

	issue := ""
	if score < 70 {
		issue = "Open with a stronger hook in the first 200 characters"
	}
	return "hook", score, issue
}

// storyArcFactor checks for problem, solution and result vocabulary; each carries a third.
func (s *Scorer) storyArcFactor(text string) (string, float64, string) {
	parts := []struct {
		name  string
		terms []string
	}{
		{"problem", s.vocab.ProblemWords},
		{"solution", s.vocab.SolutionWords},
		{"result", s.vocab.ResultWords},
	}

	found := 0
	missing := make([]string, 0, len(parts))
	for _, p := range parts {
		if containsAnyWord(text, p.terms) {
			found++
		} else {
			missing = append(missing, p.name)
		}
	}

	issue := ""
	if len(missing) > 0 {
		issue = fmt.Sprintf("Tell a complete story: describe the %s", strings.Join(missing, " and "))
	}
	return "storyArc", float64(found) * 100 / float64(len(parts)), issue
}

// readabilityFactor scores mean sentence length in words.
func readabilityFactor(text string) (string, float64, string) {
	ss := sentences(text)
	if len(ss) == 0 {
		return "readability", 40, "Break your text into complete sentences"
	}

	totalWords := 0
	for _, sentence := range ss {
		totalWords += len(words(sentence))
	}
	avg := float64(totalWords) / float64(len(ss))

	switch {
	case avg <= 20:
		return "readability", 100, ""
	case avg <= 25:
		return "readability", 80, ""
	case avg <= 30:
		return "readability", 60, "Shorten your sentences to improve readability"
	default:
		return "readability", 40, "Sentences are long; aim for 20 words or fewer"
	}
}

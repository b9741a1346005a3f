package scoring

import (
	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var headlineWeights = []factorWeight{
	{"length", 0.10},
	{"wordCount", 0.10},
	{"keywords", 0.30},
	{"valueProposition", 0.20},
	{"roleClarity", 0.15},
	{"metrics", 0.10},
	{"powerWords", 0.05},
}

// roleClarityWindow is how many leading words count as "up front" for role clarity.
const roleClarityWindow = 5

// ScoreHeadline scores a profile headline.
func (s *Scorer) ScoreHeadline(headline string, ctx types.JobContext) types.ScoreResult {
	if !nonEmpty(headline) {
		return emptyResult("No headline provided")
	}

	b := newResultBuilder()
	b.set(headlineLengthFactor(runeLen(headline)))
	b.set(headlineWordCountFactor(len(words(headline))))

	kws := keywords.Union(ctx.Keywords, s.vocab.DefaultKeywords[types.SectionHeadline])
	kwScore := keywords.Score(headline, kws)
	kwIssue := ""
	if kwScore < 50 {
		kwIssue = "Add more target-role keywords to your headline"
	}
	b.set("keywords", kwScore, kwIssue)

	if containsAnyWord(headline, s.vocab.DifferentiatorWords) {
		b.set("valueProposition", 100, "")
	} else {
		b.set("valueProposition", 40, "State what makes you different (e.g. \"helping\", \"expert in\", \"proven\")")
	}

	b.set(s.roleClarityFactor(headline, ctx))

	if s.vocab.HasMetric(headline) {
		b.set("metrics", 100, "")
	} else {
		b.set("metrics", 50, "Add a number to your headline, such as years of experience or a key result")
	}

	switch {
	case containsAnyWord(headline, s.vocab.PowerWordsTier1):
		b.set("powerWords", 100, "")
	case containsAnyWord(headline, s.vocab.PowerWordsTier2):
		b.set("powerWords", 90, "")
	default:
		b.set("powerWords", 50, "Use a power word such as \"driving\", \"building\" or \"scaled\"")
	}

	return b.build(headlineWeights, 1)
}

func headlineLengthFactor(chars int) (string, float64, string) {
	switch {
	case chars >= 70 && chars <= 120:
		return "length", 100, ""
	case chars >= 50 && chars < 70:
		return "length", 75, "Headline is slightly short; aim for 70-120 characters"
	case chars > 120 && chars <= 160:
		return "length", 75, "Headline is slightly long; aim for 70-120 characters"
	case chars < 50:
		return "length", 40, "Headline is too short; aim for 70-120 characters"
	default:
		return "length", 50, "Headline is too long and will be truncated in search results"
	}
}

func headlineWordCountFactor(n int) (string, float64, string) {
	switch {
	case n >= 6 && n <= 15:
		return "wordCount", 100, ""
	case n >= 4 && n <= 5:
		return "wordCount", 75, "Use a few more words in your headline (6-15 is ideal)"
	case n >= 16 && n <= 20:
		return "wordCount", 75, "Trim your headline to 15 words or fewer"
	default:
		return "wordCount", 40, "Headline word count is far from the ideal 6-15 words"
	}
}

// roleClarityFactor rewards a role title near the start of the headline.
func (s *Scorer) roleClarityFactor(headline string, ctx types.JobContext) (string, float64, string) {
	ws := words(headline)
	lead := ws
	if len(lead) > roleClarityWindow {
		lead = lead[:roleClarityWindow]
	}
	leadText := joinWords(lead)

	roleTerms := append(append([]string{}, ctx.TargetRoles...), s.vocab.RoleNouns...)
	switch {
	case containsAnyWord(leadText, roleTerms):
		return "roleClarity", 100, ""
	case containsAnyWord(headline, roleTerms):
		return "roleClarity", 70, "Move your role title to the start of your headline"
	default:
		return "roleClarity", 40, "State your role or title clearly in your headline"
	}
}

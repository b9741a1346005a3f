package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var experienceWeights = []factorWeight{
	{"roleCount", 0.10},
	{"bulletsPerRole", 0.15},
	{"metrics", 0.25},
	{"actionVerbs", 0.20},
	{"keywords", 0.15},
	{"recency", 0.10},
	{"impact", 0.05},
}

const (
	pointsPerMetric = 20.0
	// strongestVerbWeight is the tier-1 weight; a bullet scores 5 - tier.
	strongestVerbWeight = 4
)

// ScoreExperience scores the experience entries. The first entry is treated as the most recent role.
// Entries without a title, company, duration or bullet are ignored.
func (s *Scorer) ScoreExperience(entries []types.Experience, ctx types.JobContext) types.ScoreResult {
	experiences := filledExperiences(entries)
	if len(experiences) == 0 {
		return emptyResult("No experience entries provided")
	}

	bullets := make([]string, 0)
	var text strings.Builder
	for _, exp := range experiences {
		text.WriteString(exp.Title)
		text.WriteString(" ")
		for _, bullet := range nonBlank(exp.Bullets) {
			bullets = append(bullets, bullet)
			text.WriteString(bullet)
			text.WriteString(" ")
		}
	}

	b := newResultBuilder()
	b.set(roleCountFactor(len(experiences)))
	b.set(bulletsPerRoleFactor(float64(len(bullets)) / float64(len(experiences))))

	metricCount := 0
	for _, bullet := range bullets {
		metricCount += s.vocab.CountMetrics(bullet)
	}
	metricScore := float64(metricCount) * pointsPerMetric
	metricIssue := ""
	if metricScore < 60 {
		metricIssue = "Quantify your bullets with numbers, percentages or dollar amounts"
	}
	b.set("metrics", metricScore, metricIssue)

	b.set(s.actionVerbFactor(bullets))

	kws := keywords.Union(ctx.Keywords, s.vocab.DefaultKeywords[types.SectionExperience])
	kwScore := keywords.Score(text.String(), kws)
	kwIssue := ""
	if kwScore < 50 {
		kwIssue = "Use more target-role keywords in your experience bullets"
	}
	b.set("keywords", kwScore, kwIssue)

	b.set(s.recencyFactor(experiences[0].Duration, ctx.AsOfYear))
	b.set(s.impactFactor(bullets))

	return b.build(experienceWeights, 1)
}

func roleCountFactor(n int) (string, float64, string) {
	switch {
	case n >= 3:
		return "roleCount", 100, ""
	case n == 2:
		return "roleCount", 80, ""
	default:
		return "roleCount", 60, "Add earlier roles to show career progression"
	}
}

func bulletsPerRoleFactor(avg float64) (string, float64, string) {
	switch {
	case avg >= 3 && avg <= 5:
		return "bulletsPerRole", 100, ""
	case (avg >= 2 && avg < 3) || (avg > 5 && avg <= 7):
		return "bulletsPerRole", 75, "Aim for 3-5 bullets per role"
	case avg > 0:
		return "bulletsPerRole", 50, "Aim for 3-5 bullets per role"
	default:
		return "bulletsPerRole", 0, "Add bullet points describing what you did in each role"
	}
}

// actionVerbFactor weighs each bullet's opening verb by tier against the all-tier-1 maximum.
func (s *Scorer) actionVerbFactor(bullets []string) (string, float64, string) {
	if len(bullets) == 0 {
		return "actionVerbs", 0, "Start each bullet with a strong action verb"
	}

	sum := 0
	weak := 0
	for _, bullet := range bullets {
		tier := s.vocab.VerbTier(firstWord(bullet))
		if tier == 0 {
			weak++
			continue
		}
		sum += strongestVerbWeight + 1 - tier
	}

	score := float64(sum) * 100 / float64(strongestVerbWeight*len(bullets))
	issue := ""
	if score < 60 {
		issue = fmt.Sprintf("Start bullets with stronger action verbs (%d of %d lack a recognized verb)", weak, len(bullets))
	}
	return "actionVerbs", score, issue
}

// recencyFactor scores how recently the latest role ended.
func (s *Scorer) recencyFactor(duration string, asOfYear int) (string, float64, string) {
	if containsAnyWord(duration, s.vocab.PresentMarkers) {
		return "recency", 100, ""
	}

	endYear := lastYear(duration)
	if endYear == 0 {
		return "recency", 50, "Add dates to your most recent role"
	}
	if asOfYear <= 0 {
		return "recency", 50, ""
	}

	gap := asOfYear - endYear
	switch {
	case gap <= 0:
		return "recency", 100, ""
	case gap == 1:
		return "recency", 85, ""
	case gap <= 3:
		return "recency", 65, fmt.Sprintf("Your most recent role ended %d years ago; add current activity", gap)
	case gap <= 5:
		return "recency", 45, fmt.Sprintf("Your most recent role ended %d years ago; add current activity", gap)
	default:
		return "recency", 25, fmt.Sprintf("Your most recent role ended %d years ago; add current activity", gap)
	}
}

// impactFactor is the share of bullets that mention business impact.
func (s *Scorer) impactFactor(bullets []string) (string, float64, string) {
	if len(bullets) == 0 {
		return "impact", 0, ""
	}

	withImpact := 0
	for _, bullet := range bullets {
		if containsAnyWord(bullet, s.vocab.ImpactWords) {
			withImpact++
		}
	}
	score := float64(withImpact) * 100 / float64(len(bullets))
	issue := ""
	if score < 50 {
		issue = "Describe the business impact of your work (revenue, users, cost, team size)"
	}
	return "impact", score, issue
}

// filledExperiences drops entries that carry no content.
func filledExperiences(entries []types.Experience) []types.Experience {
	out := make([]types.Experience, 0, len(entries))
	for _, exp := range entries {
		if nonEmpty(exp.Title) || nonEmpty(exp.Company) || nonEmpty(exp.Duration) || len(nonBlank(exp.Bullets)) > 0 {
			out = append(out, exp)
		}
	}
	return out
}

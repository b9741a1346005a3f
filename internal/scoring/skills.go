package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/types"
)

var skillsWeights = []factorWeight{
	{"count", 0.10},
	{"top5Relevance", 0.20},
	{"categories", 0.15},
	{"order", 0.20},
	{"gapCoverage", 0.20},
	{"specificity", 0.15},
}

const (
	// topSkills is how many leading skills get outsized recruiter attention.
	topSkills = 5
	// orderPenaltyPerIndex is subtracted per position of the average relevant skill.
	orderPenaltyPerIndex = 5.0
	maxMissingListed     = 3
)

// ScoreSkills scores the ordered skills list. Order matters: the first five entries
// are weighted heavily because they are shown prominently.
func (s *Scorer) ScoreSkills(skills []string, ctx types.JobContext) types.ScoreResult {
	skills = nonBlank(skills)
	if len(skills) == 0 {
		return emptyResult("No skills listed")
	}

	relevance := nonBlank(ctx.Keywords)
	if len(relevance) == 0 {
		relevance = s.vocab.InDemandSkills
	}

	top := skills
	if len(top) > topSkills {
		top = top[:topSkills]
	}

	b := newResultBuilder()
	b.set(skillCountFactor(len(skills)))

	relevantTop := 0
	for _, skill := range top {
		if skillMatchesAny(skill, relevance) {
			relevantTop++
		}
	}
	top5 := float64(relevantTop) * 100 / float64(len(top))
	top5Issue := ""
	if top5 < 60 {
		top5Issue = "Move your most job-relevant skills into your top 5"
	}
	b.set("top5Relevance", top5, top5Issue)

	b.set(s.categoriesFactor(skills))
	b.set(orderFactor(skills, relevance))
	b.set(gapCoverageFactor(skills, top, relevance))
	b.set(s.specificityFactor(skills))

	return b.build(skillsWeights, 1)
}

func skillCountFactor(n int) (string, float64, string) {
	switch {
	case n >= 15 && n <= 50:
		return "count", 100, ""
	case n >= 10 && n < 15:
		return "count", 80, "List at least 15 skills"
	case n >= 5 && n < 10:
		return "count", 60, "List at least 15 skills"
	case n < 5:
		return "count", 40, "Add more skills; aim for at least 15"
	default:
		return "count", 70, "Trim your skills list to the 50 most relevant"
	}
}

// categoriesFactor rewards breadth across skill categories.
func (s *Scorer) categoriesFactor(skills []string) (string, float64, string) {
	covered := make(map[string]bool)
	for _, skill := range skills {
		for category, terms := range s.vocab.SkillCategories {
			if containsAnyWord(skill, terms) {
				covered[category] = true
			}
		}
	}

	switch {
	case len(covered) >= 3:
		return "categories", 100, ""
	case len(covered) == 2:
		return "categories", 70, "Round out your skills with another category (technical, business, interpersonal)"
	default:
		return "categories", 40, "Your skills cover a single area; add skills from other categories"
	}
}

// orderFactor penalizes relevant skills that sit late in the list.
func orderFactor(skills, relevance []string) (string, float64, string) {
	sum, count := 0, 0
	for i, skill := range skills {
		if skillMatchesAny(skill, relevance) {
			sum += i
			count++
		}
	}
	if count == 0 {
		return "order", 0, "None of your skills match the target role"
	}

	avg := float64(sum) / float64(count)
	score := 100 - orderPenaltyPerIndex*avg
	issue := ""
	if score < 70 {
		issue = "Reorder your skills so the most relevant appear first"
	}
	return "order", score, issue
}

// gapCoverageFactor checks the top job keywords: covered in the top five counts fully,
// covered further down counts half.
func gapCoverageFactor(skills, top, relevance []string) (string, float64, string) {
	targets := relevance
	if len(targets) > topSkills {
		targets = targets[:topSkills]
	}

	total := 0.0
	missing := make([]string, 0)
	for _, target := range targets {
		switch {
		case anySkillMatches(top, target):
			total += 1
		case anySkillMatches(skills, target):
			total += 0.5
		default:
			missing = append(missing, target)
		}
	}

	issue := ""
	if len(missing) > 0 {
		if len(missing) > maxMissingListed {
			missing = missing[:maxMissingListed]
		}
		issue = fmt.Sprintf("Missing key skills: %s", strings.Join(missing, ", "))
	}
	return "gapCoverage", total * 100 / float64(len(targets)), issue
}

// specificityFactor is the share of skills that are not generic soft skills.
func (s *Scorer) specificityFactor(skills []string) (string, float64, string) {
	generic := 0
	for _, skill := range skills {
		if isGenericSkill(skill, s.vocab.GenericSkills) {
			generic++
		}
	}

	score := float64(len(skills)-generic) * 100 / float64(len(skills))
	issue := ""
	if score < 70 {
		issue = "Replace generic skills (e.g. \"teamwork\") with specific tools and methods"
	}
	return "specificity", score, issue
}

// skillMatchesAny reports whether skill and any keyword contain one another (case-insensitive).
func skillMatchesAny(skill string, kws []string) bool {
	for _, kw := range kws {
		if skillMatches(skill, kw) {
			return true
		}
	}
	return false
}

func anySkillMatches(skills []string, kw string) bool {
	for _, skill := range skills {
		if skillMatches(skill, kw) {
			return true
		}
	}
	return false
}

func skillMatches(skill, kw string) bool {
	a := normalizeSkill(skill)
	b := normalizeSkill(kw)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// skillAliases maps common skill name variants to one canonical lowercase name
var skillAliases = map[string]string{
	"golang":     "go",
	"go lang":    "go",
	"js":         "javascript",
	"ts":         "typescript",
	"k8s":        "kubernetes",
	"react.js":   "react",
	"reactjs":    "react",
	"vue.js":     "vue",
	"vuejs":      "vue",
	"nodejs":     "node.js",
	"postgres":   "postgresql",
	"ml":         "machine learning",
	"ai":         "artificial intelligence",
	"gcp":        "google cloud",
	"ms excel":   "excel",
	"powerbi":    "power bi",
	"pm":         "project management",
	"ux design":  "ux",
	"ui design":  "ui",
	"amazon aws": "aws",
}

// normalizeSkill lowercases, trims and resolves aliases.
func normalizeSkill(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

func isGenericSkill(skill string, generic []string) bool {
	normalized := normalizeSkill(skill)
	for _, g := range generic {
		if normalized == strings.ToLower(g) {
			return true
		}
	}
	return false
}

package scoring

import (
	"strings"

	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var educationWeights = []factorWeight{
	{"school", 0.20},
	{"degree", 0.20},
	{"recency", 0.10},
	{"relevance", 0.20},
	{"coursework", 0.15},
	{"honors", 0.15},
}

const (
	maxGPA       = 4.0
	honorsGPA    = 3.5
	minValidYear = 1900
)

// careerLevelMultiplier scales the education score by how much it matters at each level.
var careerLevelMultiplier = map[types.CareerLevel]float64{
	types.CareerEntry:     1.2,
	types.CareerMid:       1.0,
	types.CareerSenior:    0.8,
	types.CareerExecutive: 0.8,
}

// degreeScores maps degree-level terms to factor values
var degreeScores = []struct {
	terms []string
	score float64
}{
	{[]string{"phd", "ph.d", "doctorate", "doctor of", "md", "jd", "edd"}, 100},
	{[]string{"master", "masters", "mba", "ms", "msc", "m.s", "ma", "m.a", "meng"}, 100},
	{[]string{"bachelor", "bachelors", "bs", "bsc", "b.s", "ba", "b.a", "beng", "btech"}, 90},
	{[]string{"associate", "associates", "aa", "as"}, 70},
}

// relatedFields lists fields considered adjacent to a preferred field
var relatedFields = map[string][]string{
	"computer science":       {"software engineering", "computer engineering", "information technology", "cs"},
	"software engineering":   {"computer science", "computer engineering", "cs"},
	"data science":           {"statistics", "mathematics", "computer science", "machine learning"},
	"statistics":             {"mathematics", "data science", "economics"},
	"mathematics":            {"statistics", "physics", "computer science"},
	"electrical engineering": {"computer engineering", "electronics"},
	"business":               {"management", "economics", "finance", "marketing", "mba"},
	"marketing":              {"communications", "business", "advertising"},
	"finance":                {"economics", "accounting", "business"},
	"design":                 {"fine arts", "human-computer interaction", "architecture"},
}

// ScoreEducation scores education entries. The first entry is the primary one;
// coursework and honors consider every entry. The result is scaled by career level.
// Entries without a school, degree or field are ignored.
func (s *Scorer) ScoreEducation(entries []types.Education, ctx types.JobContext) types.ScoreResult {
	education := filledEducation(entries)
	if len(education) == 0 {
		return emptyResult("No education listed")
	}
	primary := education[0]

	b := newResultBuilder()
	if nonEmpty(primary.School) {
		b.set("school", 100, "")
	} else {
		b.set("school", 0, "Add the name of your school")
	}

	b.set(degreeFactor(primary.Degree))
	b.set(educationRecencyFactor(primary.Year, ctx.AsOfYear))
	b.set(s.educationRelevanceFactor(primary, ctx))
	b.set(courseworkFactor(education))
	b.set(honorsFactor(education))

	multiplier, ok := careerLevelMultiplier[ctx.CareerLevel]
	if !ok {
		multiplier = 1.0
	}
	return b.build(educationWeights, multiplier)
}

func degreeFactor(degree string) (string, float64, string) {
	if !nonEmpty(degree) {
		return "degree", 0, "Add your degree"
	}
	for _, level := range degreeScores {
		if containsAnyWord(degree, level.terms) {
			return "degree", level.score, ""
		}
	}
	return "degree", 60, ""
}

func educationRecencyFactor(year, asOfYear int) (string, float64, string) {
	if year < minValidYear || (asOfYear > 0 && year > asOfYear+10) {
		return "recency", 50, "Add your graduation year"
	}
	if asOfYear <= 0 {
		return "recency", 70, ""
	}

	since := asOfYear - year
	switch {
	case since <= 5:
		return "recency", 100, ""
	case since <= 10:
		return "recency", 80, ""
	case since <= 20:
		return "recency", 60, ""
	default:
		return "recency", 40, ""
	}
}

// educationRelevanceFactor takes the better of keyword relevance and field-of-study relevance.
func (s *Scorer) educationRelevanceFactor(edu types.Education, ctx types.JobContext) (string, float64, string) {
	if !nonEmpty(edu.Field) {
		return "relevance", 0, "Add your field of study"
	}

	text := edu.Field + " " + edu.Degree + " " + strings.Join(edu.Coursework, " ")
	kws := keywords.Union(ctx.Keywords, s.vocab.DefaultKeywords[types.SectionEducation])
	kwScore := keywords.Score(text, kws)

	preferred := make([]string, 0, len(ctx.TargetRoles)+len(ctx.Keywords)+1)
	if nonEmpty(ctx.Industry) {
		preferred = append(preferred, ctx.Industry)
	}
	preferred = append(preferred, ctx.TargetRoles...)
	preferred = append(preferred, ctx.Keywords...)

	score := kwScore
	if fieldScore := fieldMatchScore(edu.Field, nonBlank(preferred)); fieldScore > score {
		score = fieldScore
	}

	issue := ""
	if score < 50 {
		issue = "Highlight how your studies relate to the target role (coursework, projects)"
	}
	return "relevance", score, issue
}

// fieldMatchScore computes how well a field of study matches preferred fields: exact or
// substring 100, related 70, otherwise 20.
func fieldMatchScore(field string, preferredFields []string) float64 {
	if len(preferredFields) == 0 {
		return 0
	}
	fieldLower := strings.ToLower(strings.TrimSpace(field))

	for _, preferred := range preferredFields {
		preferredLower := strings.ToLower(preferred)
		if fieldLower == preferredLower || strings.Contains(fieldLower, preferredLower) || strings.Contains(preferredLower, fieldLower) {
			return 100
		}
	}

	for _, preferred := range preferredFields {
		for key, related := range relatedFields {
			if !strings.Contains(strings.ToLower(preferred), key) {
				continue
			}
			for _, r := range related {
				if containsWord(fieldLower, r) {
					return 70
				}
			}
		}
	}

	return 20
}

func courseworkFactor(education []types.Education) (string, float64, string) {
	courses := 0
	for _, edu := range education {
		courses += len(nonBlank(edu.Coursework))
	}
	switch {
	case courses >= 3:
		return "coursework", 100, ""
	case courses >= 1:
		return "coursework", 60, "List a few more relevant courses"
	default:
		return "coursework", 30, "List relevant coursework"
	}
}

// honorsFactor rewards explicit honors, else a strong GPA. Out-of-range GPAs are ignored.
func honorsFactor(education []types.Education) (string, float64, string) {
	bestGPA := 0.0
	for _, edu := range education {
		if edu.Honors != nil && *edu.Honors {
			return "honors", 100, ""
		}
		if edu.GPA != nil && *edu.GPA > 0 && *edu.GPA <= maxGPA && *edu.GPA > bestGPA {
			bestGPA = *edu.GPA
		}
	}
	if bestGPA >= honorsGPA {
		return "honors", 80, ""
	}
	return "honors", 40, "Mention honors, awards or a strong GPA (3.5+)"
}

// filledEducation drops entries with no school, degree or field.
func filledEducation(entries []types.Education) []types.Education {
	out := make([]types.Education, 0, len(entries))
	for _, edu := range entries {
		if nonEmpty(edu.School) || nonEmpty(edu.Degree) || nonEmpty(edu.Field) {
			out = append(out, edu)
		}
	}
	return out
}

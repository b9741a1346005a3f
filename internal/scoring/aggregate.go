package scoring

import (
	"math"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// sectionWeights are the shares of the overall score. Only these sections are aggregated.
var sectionWeights = map[types.Section]float64{
	types.SectionHeadline:   0.15,
	types.SectionAbout:      0.20,
	types.SectionExperience: 0.30,
	types.SectionSkills:     0.15,
	types.SectionEducation:  0.10,
	types.SectionPhoto:      0.10,
}

// aggregateOrder fixes the summation order so results are bit-for-bit reproducible.
var aggregateOrder = []types.Section{
	types.SectionHeadline,
	types.SectionAbout,
	types.SectionExperience,
	types.SectionSkills,
	types.SectionEducation,
	types.SectionPhoto,
}

// SectionWeight returns the aggregate weight of section, or 0 for informational sections.
func SectionWeight(section types.Section) float64 {
	return sectionWeights[section]
}

// Combine computes the weighted overall score from the sections present in scores.
// Missing sections are renormalized away; sections without a weight are ignored.
func Combine(scores map[types.Section]int) int {
	total, present := 0.0, 0.0
	for _, section := range aggregateOrder {
		weight := sectionWeights[section]
		score, ok := scores[section]
		if !ok {
			continue
		}
		total += weight * clamp(float64(score), 0, 100)
		present += weight
	}
	if present == 0 {
		return 0
	}
	return int(math.Round(clamp(total/present, 0, 100)))
}

// CalculateOverallScore is Combine under the name the UI layer uses.
func CalculateOverallScore(scores map[types.Section]int) int {
	return Combine(scores)
}

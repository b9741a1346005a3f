// Package scoring evaluates profile sections against a target role and combines them into an overall score.
package scoring

import (
	"errors"
	"fmt"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// ErrUnknownSection is returned by ScoreSection for a section name it does not score.
var ErrUnknownSection = errors.New("unknown section")

// factorWeight is one named factor and its fixed share of a section score.
type factorWeight struct {
	name   string
	weight float64
}

// Scorer evaluates sections with a fixed vocabulary. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	vocab *Vocabulary
}

var defaultScorer = New(DefaultVocabulary())

// New creates a Scorer backed by vocab. A nil vocab uses the built-in tables.
func New(vocab *Vocabulary) *Scorer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Scorer{vocab: vocab}
}

// Default returns the Scorer that uses the built-in vocabulary.
func Default() *Scorer {
	return defaultScorer
}

// Vocabulary returns the tables the scorer was built with.
func (s *Scorer) Vocabulary() *Vocabulary {
	return s.vocab
}

// ScoreSection scores a single section of profile. The only error is ErrUnknownSection;
// missing content yields a zero score with an explanatory issue.
func (s *Scorer) ScoreSection(section types.Section, profile *types.Profile, ctx types.JobContext) (types.ScoreResult, error) {
	if profile == nil {
		profile = &types.Profile{}
	}

	switch section {
	case types.SectionHeadline:
		return s.ScoreHeadline(profile.Headline, ctx), nil
	case types.SectionAbout:
		return s.ScoreAbout(profile.About, ctx), nil
	case types.SectionExperience:
		return s.ScoreExperience(profile.Experiences, ctx), nil
	case types.SectionSkills:
		return s.ScoreSkills(profile.Skills, ctx), nil
	case types.SectionEducation:
		return s.ScoreEducation(profile.Education, ctx), nil
	case types.SectionPhoto:
		return s.ScorePhoto(profile.Photo), nil
	case types.SectionCertifications:
		return s.ScoreCertifications(profile.Certifications, ctx), nil
	case types.SectionVolunteering:
		return s.ScoreVolunteering(profile.Volunteering), nil
	case types.SectionRecommendations:
		return s.ScoreRecommendations(profile.Recommendations), nil
	case types.SectionFeatured:
		return s.ScoreFeatured(profile.Featured), nil
	case types.SectionInterests:
		return s.ScoreInterests(profile.Interests, ctx), nil
	case types.SectionContactInfo:
		return s.ScoreContactInfo(profile.ContactInfo), nil
	default:
		return types.ScoreResult{}, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
}

// ScoreAll scores every section and combines the weighted ones into the overall score.
func (s *Scorer) ScoreAll(profile *types.Profile, ctx types.JobContext) types.ProfileScore {
	result := types.ProfileScore{
		Sections: make(map[types.Section]types.ScoreResult, len(types.AllSections)),
	}
	for _, section := range types.AllSections {
		// Every section in AllSections is known, so the error is always nil
		sectionResult, _ := s.ScoreSection(section, profile, ctx)
		result.Sections[section] = sectionResult
	}
	result.Overall = Combine(presentScores(profile, result.Sections))
	return result
}

// presentScores keeps the aggregate sections whose content exists, so absent
// sections are renormalized away instead of counting as zero.
func presentScores(profile *types.Profile, sections map[types.Section]types.ScoreResult) map[types.Section]int {
	present := map[types.Section]bool{}
	if profile != nil {
		present[types.SectionHeadline] = nonEmpty(profile.Headline)
		present[types.SectionAbout] = nonEmpty(profile.About)
		present[types.SectionExperience] = len(filledExperiences(profile.Experiences)) > 0
		present[types.SectionSkills] = len(nonBlank(profile.Skills)) > 0
		present[types.SectionEducation] = len(filledEducation(profile.Education)) > 0
		present[types.SectionPhoto] = profile.Photo != nil
	}

	scores := make(map[types.Section]int)
	for section := range sectionWeights {
		if present[section] {
			scores[section] = sections[section].Score
		}
	}
	return scores
}

// ScoreSection scores a single section with the default scorer.
func ScoreSection(section types.Section, profile *types.Profile, ctx types.JobContext) (types.ScoreResult, error) {
	return defaultScorer.ScoreSection(section, profile, ctx)
}

// ScoreAll scores a whole profile with the default scorer.
func ScoreAll(profile *types.Profile, ctx types.JobContext) types.ProfileScore {
	return defaultScorer.ScoreAll(profile, ctx)
}

// resultBuilder accumulates factor values and issues for one section.
type resultBuilder struct {
	breakdown map[string]float64
	issues    []string
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{
		breakdown: make(map[string]float64),
		issues:    make([]string, 0),
	}
}

// set records a factor value (clamped to 0-100) and an optional issue.
func (b *resultBuilder) set(name string, value float64, issue string) {
	b.breakdown[name] = clamp(value, 0, 100)
	if issue != "" {
		b.issues = append(b.issues, issue)
	}
}

// build combines the breakdown with the fixed weights, scaled by multiplier.
func (b *resultBuilder) build(weights []factorWeight, multiplier float64) types.ScoreResult {
	total := 0.0
	for _, fw := range weights {
		total += fw.weight * b.breakdown[fw.name]
	}
	return types.ScoreResult{
		Score:     roundScore(total * multiplier),
		Breakdown: b.breakdown,
		Issues:    b.issues,
	}
}

// emptyResult is the result for a section with no content.
func emptyResult(issue string) types.ScoreResult {
	return types.ScoreResult{
		Score:     0,
		Breakdown: map[string]float64{},
		Issues:    []string{issue},
	}
}

// ScoreHeadline scores a headline with the default scorer.
func ScoreHeadline(headline string, ctx types.JobContext) types.ScoreResult {
	return defaultScorer.ScoreHeadline(headline, ctx)
}

// ScoreAbout scores an About section with the default scorer.
func ScoreAbout(about string, ctx types.JobContext) types.ScoreResult {
	return defaultScorer.ScoreAbout(about, ctx)
}

// ScoreExperience scores experience entries with the default scorer.
func ScoreExperience(experiences []types.Experience, ctx types.JobContext) types.ScoreResult {
	return defaultScorer.ScoreExperience(experiences, ctx)
}

// ScoreSkills scores a skills list with the default scorer.
func ScoreSkills(skills []string, ctx types.JobContext) types.ScoreResult {
	return defaultScorer.ScoreSkills(skills, ctx)
}

// ScoreEducation scores education entries with the default scorer.
func ScoreEducation(education []types.Education, ctx types.JobContext) types.ScoreResult {
	return defaultScorer.ScoreEducation(education, ctx)
}

// ScorePhoto scores a photo analysis with the default scorer.
func ScorePhoto(photo *types.PhotoAnalysis) types.ScoreResult {
	return defaultScorer.ScorePhoto(photo)
}

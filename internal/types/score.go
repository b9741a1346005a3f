package types

import (
	"time"

	"github.com/google/uuid"
)

// Section identifies one scored facet of a profile.
type Section string

// Scored sections. The first six feed the weighted overall score; the rest are informational.
const (
	SectionHeadline        Section = "headline"
	SectionAbout           Section = "about"
	SectionExperience      Section = "experience"
	SectionSkills          Section = "skills"
	SectionEducation       Section = "education"
	SectionPhoto           Section = "photo"
	SectionCertifications  Section = "certifications"
	SectionVolunteering    Section = "volunteering"
	SectionRecommendations Section = "recommendations"
	SectionFeatured        Section = "featured"
	SectionInterests       Section = "interests"
	SectionContactInfo     Section = "contact_info"
)

// AllSections lists every section in display order.
var AllSections = []Section{
	SectionHeadline,
	SectionAbout,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionPhoto,
	SectionCertifications,
	SectionVolunteering,
	SectionRecommendations,
	SectionFeatured,
	SectionInterests,
	SectionContactInfo,
}

// ScoreResult is the explainable score of a single section.
type ScoreResult struct {
	Score     int                `json:"score"`     // 0-100, rounded weighted sum of Breakdown
	Breakdown map[string]float64 `json:"breakdown"` // factor name -> 0-100
	Issues    []string           `json:"issues"`
}

// ProfileScore holds the result of scoring every section plus the weighted overall score.
type ProfileScore struct {
	Sections map[Section]ScoreResult `json:"sections"`
	Overall  int                     `json:"overall"`
}

// SectionScores flattens the per-section results into plain scores.
func (p ProfileScore) SectionScores() map[Section]int {
	out := make(map[Section]int, len(p.Sections))
	for section, result := range p.Sections {
		out[section] = result.Score
	}
	return out
}

// ScoreRecord is one analyzed profile score in a user's history.
type ScoreRecord struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Overall       int             `json:"overall"`
	SectionScores map[Section]int `json:"section_scores"`
	XPAwarded     int             `json:"xp_awarded"`
	CreatedAt     time.Time       `json:"created_at"`
}

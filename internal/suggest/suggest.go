// Package suggest produces improvement suggestions for scored profile sections.
// Suggestions never influence scores; scoring stays deterministic and local.
package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// DefaultLimit is the maximum number of suggestions returned per section.
const DefaultLimit = 3

// weakFactorThreshold marks factors worth a suggestion.
const weakFactorThreshold = 70.0

// Suggestion sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Suggestion is one improvement for a section.
type Suggestion struct {
	Section types.Section `json:"section"`
	Factor  string        `json:"factor,omitempty"`
	Text    string        `json:"text"`
	Source  string        `json:"source"`
}

// Request describes the section to improve and the score it received.
type Request struct {
	Section types.Section
	Profile *types.Profile
	Context types.JobContext
	Result  types.ScoreResult
	Limit   int
}

func (r Request) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// Suggester returns suggestions for one section.
type Suggester interface {
	Suggest(ctx context.Context, req Request) ([]Suggestion, error)
}

// factorScore is a breakdown entry.
type factorScore struct {
	name  string
	value float64
}

// weakFactors returns breakdown factors below the threshold, weakest first.
// Ties break by name so the order is stable.
func weakFactors(breakdown map[string]float64) []factorScore {
	var weak []factorScore
	for name, value := range breakdown {
		if value < weakFactorThreshold {
			weak = append(weak, factorScore{name: name, value: value})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].value != weak[j].value {
			return weak[i].value < weak[j].value
		}
		return weak[i].name < weak[j].name
	})
	return weak
}

// SectionContent renders the text of a section for prompts and reports.
func SectionContent(section types.Section, profile *types.Profile) string {
	if profile == nil {
		return ""
	}

	var lines []string
	switch section {
	case types.SectionHeadline:
		lines = append(lines, profile.Headline)
	case types.SectionAbout:
		lines = append(lines, profile.About)
	case types.SectionExperience:
		for _, exp := range profile.Experiences {
			lines = append(lines, fmt.Sprintf("%s at %s (%s)", exp.Title, exp.Company, exp.Duration))
			for _, b := range exp.Bullets {
				lines = append(lines, "- "+b)
			}
		}
	case types.SectionSkills:
		lines = append(lines, strings.Join(profile.Skills, ", "))
	case types.SectionEducation:
		for _, edu := range profile.Education {
			line := strings.TrimSpace(strings.Join([]string{edu.Degree, edu.Field}, " "))
			if edu.Year > 0 {
				line = fmt.Sprintf("%s, %s (%d)", line, edu.School, edu.Year)
			} else {
				line = fmt.Sprintf("%s, %s", line, edu.School)
			}
			lines = append(lines, line)
		}
	case types.SectionCertifications:
		for _, c := range profile.Certifications {
			lines = append(lines, strings.TrimSpace(c.Name+" "+c.Issuer))
		}
	case types.SectionVolunteering:
		for _, v := range profile.Volunteering {
			lines = append(lines, strings.TrimSpace(v.Role+" "+v.Organization+" "+v.Description))
		}
	case types.SectionRecommendations:
		for _, r := range profile.Recommendations {
			lines = append(lines, r.Text)
		}
	case types.SectionFeatured:
		for _, f := range profile.Featured {
			lines = append(lines, f.Title)
		}
	case types.SectionInterests:
		lines = append(lines, strings.Join(profile.Interests, ", "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

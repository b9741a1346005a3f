package suggest

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/profile-optimizer/internal/prompts"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// FallbackSuggester asks the remote suggester first and degrades to static
// tips keyed by the weakest factors when it fails, is open, or is not configured.
type FallbackSuggester struct {
	Remote  Suggester // nil means static tips only
	Verbose bool
}

// NewFallbackSuggester wraps remote, which may be nil.
func NewFallbackSuggester(remote Suggester) *FallbackSuggester {
	return &FallbackSuggester{Remote: remote}
}

// Suggest never returns an error; a remote failure is logged and replaced by static tips.
func (f *FallbackSuggester) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	if f.Remote != nil {
		suggestions, err := f.Remote.Suggest(ctx, req)
		if err == nil && len(suggestions) > 0 {
			return suggestions, nil
		}
		if err != nil {
			log.Printf("suggestions for %s falling back to static tips: %v", req.Section, err)
		} else if f.Verbose {
			log.Printf("remote returned no suggestions for %s, using static tips", req.Section)
		}
	}
	return Static(req), nil
}

// Static returns template tips for the weakest factors of a section.
// A section with no weak factors but open issues gets its generic tip.
func Static(req Request) []Suggestion {
	data := map[string]string{
		"Keywords":    joinOr(req.Context.Keywords, "your target keywords"),
		"TargetRoles": joinOr(req.Context.TargetRoles, "your target role"),
	}

	var out []Suggestion
	seen := map[string]bool{}
	for _, factor := range weakFactors(req.Result.Breakdown) {
		if len(out) >= req.limit() {
			break
		}
		tip, ok := prompts.Fallback(string(req.Section), factor.name)
		if !ok || seen[tip] {
			continue
		}
		seen[tip] = true
		out = append(out, Suggestion{
			Section: req.Section,
			Factor:  factor.name,
			Text:    prompts.Format(tip, data),
			Source:  SourceFallback,
		})
	}

	if len(out) == 0 && (len(req.Result.Issues) > 0 || len(req.Result.Breakdown) == 0) {
		if tip, ok := prompts.Fallback(string(req.Section), ""); ok {
			out = append(out, Suggestion{
				Section: req.Section,
				Text:    prompts.Format(tip, data),
				Source:  SourceFallback,
			})
		}
	}
	return out
}

func joinOr(values []string, fallback string) string {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return fallback
	}
	return strings.Join(kept, ", ")
}

var _ Suggester = (*FallbackSuggester)(nil)

// SuggestAll returns suggestions for every section of score, in display order.
func SuggestAll(ctx context.Context, s Suggester, profile *types.Profile, jobCtx types.JobContext, score types.ProfileScore) (map[types.Section][]Suggestion, error) {
	out := make(map[types.Section][]Suggestion, len(score.Sections))
	for _, section := range types.AllSections {
		result, ok := score.Sections[section]
		if !ok {
			continue
		}
		suggestions, err := s.Suggest(ctx, Request{Section: section, Profile: profile, Context: jobCtx, Result: result})
		if err != nil {
			return nil, err
		}
		if len(suggestions) > 0 {
			out[section] = suggestions
		}
	}
	return out, nil
}

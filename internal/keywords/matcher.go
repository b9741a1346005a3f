// Package keywords provides substring-based keyword relevance scoring.
package keywords

import (
	"math"
	"strings"
)

// Score weights and position decay
const (
	matchRatioWeight     = 60.0
	positionWeightFactor = 40.0
	positionDecay        = 0.02
	positionFloor        = 0.5
)

// Score computes a 0-100 relevance score for text against a relevance-ordered keyword list.
// Earlier keywords contribute more. Matching is case-insensitive substring containment
// without stemming, so plurals and synonyms are not folded together.
func Score(text string, keywords []string) float64 {
	if strings.TrimSpace(text) == "" || len(keywords) == 0 {
		return 0
	}

	textLower := strings.ToLower(text)
	matchCount := 0
	weightedSum := 0.0
	for i, keyword := range keywords {
		if !contains(textLower, keyword) {
			continue
		}
		matchCount++
		weightedSum += math.Max(positionFloor, 1-positionDecay*float64(i))
	}

	total := float64(len(keywords))
	matchRatio := float64(matchCount) / total
	positionWeight := weightedSum / total

	return clamp(matchRatio*matchRatioWeight+positionWeight*positionWeightFactor, 0, 100)
}

// Matched returns the keywords found in text, in keyword order.
func Matched(text string, keywords []string) []string {
	textLower := strings.ToLower(text)
	matched := make([]string, 0)
	for _, keyword := range keywords {
		if contains(textLower, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// Union returns primary followed by the defaults not already present (case-insensitive).
// Blank entries are dropped and the order of first appearance is kept.
func Union(primary, defaults []string) []string {
	seen := make(map[string]bool, len(primary)+len(defaults))
	out := make([]string, 0, len(primary)+len(defaults))
	for _, list := range [][]string{primary, defaults} {
		for _, keyword := range list {
			key := strings.ToLower(strings.TrimSpace(keyword))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(keyword))
		}
	}
	return out
}

// ContainsAny reports whether text contains any of the terms (case-insensitive).
func ContainsAny(text string, terms []string) bool {
	textLower := strings.ToLower(text)
	for _, term := range terms {
		if contains(textLower, term) {
			return true
		}
	}
	return false
}

// contains reports whether keyword (any case) is a substring of the already-lowercased text.
// Blank keywords never match.
func contains(textLower, keyword string) bool {
	keywordLower := strings.ToLower(strings.TrimSpace(keyword))
	if keywordLower == "" {
		return false
	}
	return strings.Contains(textLower, keywordLower)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

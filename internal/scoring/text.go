package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	sentenceSplitRegex = regexp.MustCompile(`[.!?]+(\s+|$)`)
	yearRegex          = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// words splits text into lowercase words with surrounding punctuation removed.
func words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// firstWord returns the first lowercase word of text, or "".
func firstWord(text string) string {
	ws := words(text)
	if len(ws) == 0 {
		return ""
	}
	return ws[0]
}

// runeLen counts characters rather than bytes.
func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}

// prefixRunes returns at most n leading runes of text.
func prefixRunes(text string, n int) string {
	if runeLen(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

// sentences splits text on terminal punctuation and drops empty pieces.
func sentences(text string) []string {
	parts := sentenceSplitRegex.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// containsWord reports whether term occurs in text on word boundaries (case-insensitive).
// Multi-word terms match as a phrase.
func containsWord(text, term string) bool {
	textLower := strings.ToLower(text)
	termLower := strings.ToLower(strings.TrimSpace(term))
	if termLower == "" {
		return false
	}

	offset := 0
	for {
		idx := strings.Index(textLower[offset:], termLower)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(termLower)
		if isBoundary(textLower, start-1) && isBoundary(textLower, end) {
			return true
		}
		offset = start + 1
	}
}

// isBoundary reports whether the byte at i is outside text or not part of a word.
func isBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	if r == utf8.RuneError {
		// Middle of a multi-byte rune: look back for its start
		r, _ = utf8.DecodeLastRuneInString(text[:i+1])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// containsAnyWord reports whether any term occurs in text on word boundaries.
func containsAnyWord(text string, terms []string) bool {
	for _, term := range terms {
		if containsWord(text, term) {
			return true
		}
	}
	return false
}

// countMergedSpans counts match spans after merging the ones that overlap.
func countMergedSpans(spans [][]int) int {
	if len(spans) == 0 {
		return 0
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	count := 1
	end := spans[0][1]
	for _, s := range spans[1:] {
		if s[0] < end {
			if s[1] > end {
				end = s[1]
			}
			continue
		}
		count++
		end = s[1]
	}
	return count
}

// lastYear returns the last four-digit year (1900-2099) in text, or 0.
func lastYear(text string) int {
	matches := yearRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0
	}
	year := 0
	for _, c := range matches[len(matches)-1] {
		year = year*10 + int(c-'0')
	}
	return year
}

// nonBlank trims entries and drops empty ones.
func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundScore rounds a 0-100 value to the nearest integer, clamped to [0,100].
func roundScore(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}

// joinWords rebuilds a space-separated string from words.
func joinWords(ws []string) string {
	return strings.Join(ws, " ")
}

// nonEmpty reports whether text has any non-space content.
func nonEmpty(text string) bool {
	return strings.TrimSpace(text) != ""
}

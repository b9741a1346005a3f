package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(SuggestionsFile, KeySectionTips)
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Section}}")
	assert.Contains(t, prompt, "\"suggestions\"")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(SuggestionsFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() { assert.NotEmpty(t, MustGet(SuggestionsFile, KeyHeadlineRewrite)) })
}

func TestFormat(t *testing.T) {
	template := "Improve {{.Section}} for {{.Role}}; keep {{.Unknown}}"
	result := Format(template, map[string]string{"Section": "headline", "Role": "Product Manager"})
	assert.Equal(t, "Improve headline for Product Manager; keep {{.Unknown}}", result)
}

func TestFallback(t *testing.T) {
	tip, ok := Fallback("headline", "keywords")
	require.True(t, ok)
	assert.Contains(t, tip, "{{.Keywords}}")

	generic, ok := Fallback("headline", "noSuchFactor")
	require.True(t, ok)
	assert.Equal(t, MustGet(FallbackFile, "headline"), generic)

	_, ok = Fallback("hobbies", "")
	assert.False(t, ok)
}

func TestFallback_CoversEverySection(t *testing.T) {
	sections := []string{
		"headline", "about", "experience", "skills", "education", "photo",
		"certifications", "volunteering", "recommendations", "featured", "interests", "contact_info",
	}
	for _, section := range sections {
		_, ok := Fallback(section, "")
		assert.True(t, ok, section)
	}
}

func TestList_Sorted(t *testing.T) {
	keys, err := List(SuggestionsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyHeadlineRewrite, KeySectionTips}, keys)

	fallbackKeys, err := List(FallbackFile)
	require.NoError(t, err)
	for i := 1; i < len(fallbackKeys); i++ {
		assert.True(t, strings.Compare(fallbackKeys[i-1], fallbackKeys[i]) < 0)
	}
}

package scoring

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// Vocabulary holds the curated term lists and patterns the heuristics rely on.
// Defaults are built in; any list can be replaced from a YAML file.
type Vocabulary struct {
	DefaultKeywords     map[types.Section][]string `yaml:"default_keywords"`
	DifferentiatorWords []string                   `yaml:"differentiator_words"`
	RoleNouns           []string                   `yaml:"role_nouns"`
	PowerWordsTier1     []string                   `yaml:"power_words_tier1"`
	PowerWordsTier2     []string                   `yaml:"power_words_tier2"`
	ActionVerbTiers     [][]string                 `yaml:"action_verb_tiers"` // Index 0 is the strongest tier; at most four tiers
	MetricPatterns      []string                   `yaml:"metric_patterns"`
	OutcomeVerbs        []string                   `yaml:"outcome_verbs"`
	HookWords           []string                   `yaml:"hook_words"`
	ProblemWords        []string                   `yaml:"problem_words"`
	SolutionWords       []string                   `yaml:"solution_words"`
	ResultWords         []string                   `yaml:"result_words"`
	CTAWords            []string                   `yaml:"cta_words"`
	ImpactWords         []string                   `yaml:"impact_words"`
	PresentMarkers      []string                   `yaml:"present_markers"`
	InDemandSkills      []string                   `yaml:"in_demand_skills"`
	GenericSkills       []string                   `yaml:"generic_skills"`
	SkillCategories     map[string][]string        `yaml:"skill_categories"`
	ATSHostileGlyphs    []string                   `yaml:"ats_hostile_glyphs"`

	metricRegexps []*regexp.Regexp
	verbTier      map[string]int
}

// DefaultVocabulary returns the built-in tables, compiled and ready to use.
func DefaultVocabulary() *Vocabulary {
	v := &Vocabulary{
		DefaultKeywords: map[types.Section][]string{
			types.SectionHeadline: {
				"leader", "expert", "specialist", "strategy", "growth", "data", "product", "engineering",
			},
			types.SectionAbout: {
				"experience", "passionate", "team", "results", "strategy", "growth", "customers", "impact",
			},
			types.SectionExperience: {
				"led", "managed", "built", "delivered", "improved", "team", "stakeholders", "strategy",
			},
			types.SectionEducation: {
				"computer science", "engineering", "business", "mathematics", "statistics", "economics",
			},
			types.SectionCertifications: {
				"certified", "professional", "associate", "aws", "pmp", "scrum",
			},
		},
		DifferentiatorWords: []string{
			"expert", "specialist", "proven", "award", "certified", "helping", "driving", "transforming",
			"scaling", "building", "results", "growth", "passionate about", "track record", "leader",
		},
		RoleNouns: []string{
			"manager", "engineer", "developer", "designer", "analyst", "director", "consultant",
			"scientist", "architect", "specialist", "lead", "head", "officer", "founder", "executive",
			"strategist", "marketer", "recruiter", "accountant", "administrator", "coordinator",
			"owner", "president", "vp", "cto", "ceo", "cfo", "coo", "researcher", "writer",
		},
		PowerWordsTier1: []string{
			"transformed", "pioneered", "spearheaded", "architected", "scaled", "founded", "award-winning",
		},
		PowerWordsTier2: []string{
			"driving", "leading", "building", "delivering", "helping", "growing", "optimizing", "launching",
		},
		ActionVerbTiers: [][]string{
			{"spearheaded", "pioneered", "transformed", "architected", "founded", "orchestrated", "championed", "revolutionized"},
			{"led", "launched", "delivered", "increased", "reduced", "grew", "built", "designed", "scaled", "negotiated", "drove"},
			{"developed", "implemented", "created", "improved", "managed", "optimized", "established", "streamlined", "automated", "coordinated"},
			{"worked", "helped", "assisted", "supported", "participated", "contributed", "handled", "responsible", "used", "maintained"},
		},
		MetricPatterns: []string{
			// percentages, currency, "5+"
			`\d+(\.\d+)?\s?%`,
			`[$€£]\s?\d[\d,.]*\s?[kmb]?`,
			`\d+\+`,
			// magnitudes and multipliers: 10k, 2.5M, 3x
			`\b\d+(\.\d+)?\s?(k|m|b|mm|x)\b`,
			// durations
			`\b\d+\s?(years?|months?|weeks?|days?|hours?|yrs?)\b`,
			// bare counts of two or more digits
			`\b\d{2,}\b`,
		},
		OutcomeVerbs: []string{
			"increased", "decreased", "reduced", "grew", "saved", "generated", "improved", "boosted",
			"cut", "doubled", "tripled", "accelerated",
		},
		HookWords: []string{
			"imagine", "what if", "ever wondered", "i believe", "my mission", "i love", "obsessed",
			"passionate", "story", "why",
		},
		ProblemWords: []string{
			"problem", "challenge", "struggle", "pain point", "gap", "broken", "inefficient", "bottleneck",
		},
		SolutionWords: []string{
			"solution", "solve", "solved", "built", "designed", "created", "developed", "approach", "fix",
		},
		ResultWords: []string{
			"result", "outcome", "impact", "increased", "reduced", "saved", "grew", "achieved", "delivered",
		},
		CTAWords: []string{
			"reach out", "connect", "contact", "email me", "message me", "get in touch", "let's talk",
			"let's chat", "dm me", "feel free",
		},
		ImpactWords: []string{
			"revenue", "customers", "users", "team of", "saved", "grew", "increased", "reduced", "launched",
			"led", "profit", "cost", "efficiency", "growth",
		},
		PresentMarkers: []string{"present", "current", "now", "today", "ongoing"},
		InDemandSkills: []string{
			"python", "sql", "project management", "data analysis", "cloud", "javascript",
			"machine learning", "leadership", "aws", "communication",
		},
		GenericSkills: []string{
			"communication", "teamwork", "team player", "leadership", "problem solving", "hard working",
			"hardworking", "microsoft office", "ms office", "time management", "detail oriented",
			"self motivated", "multitasking", "customer service", "interpersonal skills",
		},
		SkillCategories: map[string][]string{
			"technical": {
				"python", "java", "go", "golang", "javascript", "typescript", "sql", "c++", "c#", "rust",
				"kubernetes", "docker", "aws", "azure", "gcp", "react", "node", "machine learning", "cloud",
			},
			"analytics": {
				"data", "analytics", "statistics", "tableau", "excel", "power bi", "forecasting", "modeling",
			},
			"business": {
				"strategy", "product", "marketing", "sales", "finance", "operations", "project management",
				"agile", "scrum", "budget", "negotiation", "saas", "b2b",
			},
			"interpersonal": {
				"leadership", "communication", "mentoring", "collaboration", "public speaking", "coaching",
				"stakeholder", "teamwork",
			},
			"design": {
				"design", "ux", "ui", "figma", "research", "prototyping", "branding",
			},
		},
		ATSHostileGlyphs: []string{"★", "☆", "✦", "✔", "✅", "➤", "►", "▪", "│", "┃", "═", "\t"},
	}
	v.compile()
	return v
}

// LoadVocabulary reads a YAML file and overlays its non-empty lists on the built-in defaults.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary YAML: %w", err)
	}

	v := DefaultVocabulary()
	v.overlay(&override)
	if err := v.validatePatterns(); err != nil {
		return nil, err
	}
	v.compile()
	return v, nil
}

// overlay replaces each default list with the override's list when the override sets one.
func (v *Vocabulary) overlay(o *Vocabulary) {
	for section, kws := range o.DefaultKeywords {
		v.DefaultKeywords[section] = kws
	}
	for name, terms := range o.SkillCategories {
		v.SkillCategories[name] = terms
	}
	for i, tier := range o.ActionVerbTiers {
		if i < len(v.ActionVerbTiers) && len(tier) > 0 {
			v.ActionVerbTiers[i] = tier
		}
	}

	lists := []struct {
		dst *[]string
		src []string
	}{
		{&v.DifferentiatorWords, o.DifferentiatorWords},
		{&v.RoleNouns, o.RoleNouns},
		{&v.PowerWordsTier1, o.PowerWordsTier1},
		{&v.PowerWordsTier2, o.PowerWordsTier2},
		{&v.MetricPatterns, o.MetricPatterns},
		{&v.OutcomeVerbs, o.OutcomeVerbs},
		{&v.HookWords, o.HookWords},
		{&v.ProblemWords, o.ProblemWords},
		{&v.SolutionWords, o.SolutionWords},
		{&v.ResultWords, o.ResultWords},
		{&v.CTAWords, o.CTAWords},
		{&v.ImpactWords, o.ImpactWords},
		{&v.PresentMarkers, o.PresentMarkers},
		{&v.InDemandSkills, o.InDemandSkills},
		{&v.GenericSkills, o.GenericSkills},
		{&v.ATSHostileGlyphs, o.ATSHostileGlyphs},
	}
	for _, l := range lists {
		if len(l.src) > 0 {
			*l.dst = l.src
		}
	}
}

func (v *Vocabulary) validatePatterns() error {
	for _, p := range v.MetricPatterns {
		if _, err := regexp.Compile(`(?i)` + p); err != nil {
			return fmt.Errorf("invalid metric pattern %q: %w", p, err)
		}
	}
	return nil
}

// compile builds the regex and verb lookup caches. Patterns must already be valid.
func (v *Vocabulary) compile() {
	v.metricRegexps = make([]*regexp.Regexp, 0, len(v.MetricPatterns))
	for _, p := range v.MetricPatterns {
		v.metricRegexps = append(v.metricRegexps, regexp.MustCompile(`(?i)`+p))
	}

	v.verbTier = make(map[string]int)
	for i, tier := range v.ActionVerbTiers {
		for _, verb := range tier {
			verb = strings.ToLower(strings.TrimSpace(verb))
			if _, exists := v.verbTier[verb]; !exists {
				v.verbTier[verb] = i + 1
			}
		}
	}
}

// CountMetrics returns the number of distinct metric mentions plus outcome verbs in text.
// Pattern hits that overlap are merged into a single mention.
func (v *Vocabulary) CountMetrics(text string) int {
	var spans [][]int
	for _, re := range v.metricRegexps {
		spans = append(spans, re.FindAllStringIndex(text, -1)...)
	}
	count := countMergedSpans(spans)
	for _, verb := range v.OutcomeVerbs {
		if containsWord(text, verb) {
			count++
		}
	}
	return count
}

// HasMetric reports whether text contains any numeric metric pattern.
func (v *Vocabulary) HasMetric(text string) bool {
	for _, re := range v.metricRegexps {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// VerbTier returns 1-4 for a known action verb (1 strongest) or 0.
func (v *Vocabulary) VerbTier(word string) int {
	return v.verbTier[word]
}

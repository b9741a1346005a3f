package scoring

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/profile-optimizer/internal/keywords"
	"github.com/jonathan/profile-optimizer/internal/types"
)

// The informational sections below are shown to the user but do not feed the overall score.

var (
	certificationWeights = []factorWeight{
		{"count", 0.40},
		{"completeness", 0.30},
		{"keywords", 0.30},
	}
	volunteeringWeights = []factorWeight{
		{"count", 0.50},
		{"detail", 0.50},
	}
	recommendationWeights = []factorWeight{
		{"count", 0.70},
		{"detail", 0.30},
	}
	featuredWeights = []factorWeight{
		{"count", 0.60},
		{"variety", 0.40},
	}
	interestWeights = []factorWeight{
		{"count", 0.60},
		{"relevance", 0.40},
	}
	contactInfoWeights = []factorWeight{
		{"completeness", 0.70},
		{"customURL", 0.30},
	}
)

const (
	// detailedDescriptionChars is the length at which a free-text description counts as detailed.
	detailedDescriptionChars = 100
	// detailedRecommendationChars is the length of a substantive recommendation.
	detailedRecommendationChars = 200
)

var contactValidator = validator.New()

// ScoreCertifications scores licenses and certifications.
func (s *Scorer) ScoreCertifications(certs []types.Certification, ctx types.JobContext) types.ScoreResult {
	named := make([]types.Certification, 0, len(certs))
	for _, c := range certs {
		if nonEmpty(c.Name) {
			named = append(named, c)
		}
	}
	if len(named) == 0 {
		return emptyResult("No certifications listed")
	}

	b := newResultBuilder()
	switch {
	case len(named) >= 3:
		b.set("count", 100, "")
	case len(named) == 2:
		b.set("count", 80, "")
	default:
		b.set("count", 60, "Add more certifications relevant to your target role")
	}

	complete := 0
	var text strings.Builder
	for _, c := range named {
		if nonEmpty(c.Issuer) && c.Year > 0 {
			complete++
		}
		text.WriteString(c.Name)
		text.WriteString(" ")
		text.WriteString(c.Issuer)
		text.WriteString(" ")
	}
	completeness := float64(complete) * 100 / float64(len(named))
	completenessIssue := ""
	if completeness < 100 {
		completenessIssue = "Add the issuing organization and year to every certification"
	}
	b.set("completeness", completeness, completenessIssue)

	kws := keywords.Union(ctx.Keywords, s.vocab.DefaultKeywords[types.SectionCertifications])
	kwScore := keywords.Score(text.String(), kws)
	kwIssue := ""
	if kwScore < 50 {
		kwIssue = "Prioritize certifications that match your target role"
	}
	b.set("keywords", kwScore, kwIssue)

	return b.build(certificationWeights, 1)
}

// ScoreVolunteering scores volunteer experience.
func (s *Scorer) ScoreVolunteering(entries []types.Volunteering) types.ScoreResult {
	valid := make([]types.Volunteering, 0, len(entries))
	for _, v := range entries {
		if nonEmpty(v.Role) || nonEmpty(v.Organization) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return emptyResult("No volunteering experience listed")
	}

	b := newResultBuilder()
	switch {
	case len(valid) >= 2:
		b.set("count", 100, "")
	default:
		b.set("count", 70, "")
	}

	detailed := 0
	for _, v := range valid {
		if nonEmpty(v.Cause) && runeLen(strings.TrimSpace(v.Description)) >= detailedDescriptionChars {
			detailed++
		}
	}
	detail := float64(detailed) * 100 / float64(len(valid))
	detailIssue := ""
	if detail < 50 {
		detailIssue = "Describe the cause and your contribution for each volunteer role"
	}
	b.set("detail", detail, detailIssue)

	return b.build(volunteeringWeights, 1)
}

// ScoreRecommendations scores received recommendations.
func (s *Scorer) ScoreRecommendations(recs []types.Recommendation) types.ScoreResult {
	valid := make([]types.Recommendation, 0, len(recs))
	for _, r := range recs {
		if nonEmpty(r.Author) || nonEmpty(r.Text) {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return emptyResult("No recommendations received")
	}

	b := newResultBuilder()
	switch {
	case len(valid) >= 3:
		b.set("count", 100, "")
	case len(valid) == 2:
		b.set("count", 80, "Ask one more colleague for a recommendation")
	default:
		b.set("count", 60, "Ask colleagues or managers for at least 3 recommendations")
	}

	detailed := 0
	for _, r := range valid {
		if runeLen(strings.TrimSpace(r.Text)) >= detailedRecommendationChars {
			detailed++
		}
	}
	detail := float64(detailed) * 100 / float64(len(valid))
	detailIssue := ""
	if detail < 50 {
		detailIssue = "Request recommendations that describe specific results you delivered"
	}
	b.set("detail", detail, detailIssue)

	return b.build(recommendationWeights, 1)
}

// ScoreFeatured scores pinned featured items.
func (s *Scorer) ScoreFeatured(items []types.FeaturedItem) types.ScoreResult {
	valid := make([]types.FeaturedItem, 0, len(items))
	for _, item := range items {
		if nonEmpty(item.Title) || nonEmpty(item.URL) {
			valid = append(valid, item)
		}
	}
	if len(valid) == 0 {
		return emptyResult("No featured items")
	}

	b := newResultBuilder()
	switch {
	case len(valid) >= 3:
		b.set("count", 100, "")
	case len(valid) == 2:
		b.set("count", 75, "")
	default:
		b.set("count", 50, "Feature at least 3 items that showcase your work")
	}

	kinds := make(map[string]bool)
	for _, item := range valid {
		kind := strings.ToLower(strings.TrimSpace(item.Kind))
		if kind == "" {
			kind = "link"
		}
		kinds[kind] = true
	}
	switch {
	case len(kinds) >= 3:
		b.set("variety", 100, "")
	case len(kinds) == 2:
		b.set("variety", 70, "")
	default:
		b.set("variety", 40, "Mix posts, articles and media in your featured section")
	}

	return b.build(featuredWeights, 1)
}

// ScoreInterests scores the listed interests; relevance uses the target-role keywords.
func (s *Scorer) ScoreInterests(interests []string, ctx types.JobContext) types.ScoreResult {
	interests = nonBlank(interests)
	if len(interests) == 0 {
		return emptyResult("No interests listed")
	}

	b := newResultBuilder()
	switch {
	case len(interests) >= 5:
		b.set("count", 100, "")
	case len(interests) >= 3:
		b.set("count", 75, "")
	default:
		b.set("count", 50, "Follow more companies, groups or topics related to your field")
	}

	terms := append(append([]string{}, ctx.Keywords...), ctx.TargetRoles...)
	if nonEmpty(ctx.Industry) {
		terms = append(terms, ctx.Industry)
	}
	terms = nonBlank(terms)

	if len(terms) == 0 {
		b.set("relevance", 50, "")
		return b.build(interestWeights, 1)
	}

	relevant := 0
	for _, interest := range interests {
		if skillMatchesAny(interest, terms) {
			relevant++
		}
	}
	relevance := float64(relevant) * 100 / float64(len(interests))
	relevanceIssue := ""
	if relevance < 50 {
		relevanceIssue = "Follow topics and companies related to your target role"
	}
	b.set("relevance", relevance, relevanceIssue)

	return b.build(interestWeights, 1)
}

// ScoreContactInfo scores contact details. Malformed email or website values count as absent.
func (s *Scorer) ScoreContactInfo(info *types.ContactInfo) types.ScoreResult {
	if info == nil {
		return emptyResult("No contact information provided")
	}

	email := validField(info.Email, "email")
	website := validField(info.Website, "url")

	present := 0
	missing := make([]string, 0, 4)
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"email", email},
		{"phone", nonEmpty(info.Phone)},
		{"website", website},
		{"location", nonEmpty(info.Location)},
	} {
		if f.ok {
			present++
		} else {
			missing = append(missing, f.name)
		}
	}
	if present == 0 && !info.CustomURL {
		return emptyResult("No contact information provided")
	}

	b := newResultBuilder()
	completenessIssue := ""
	if len(missing) > 0 {
		completenessIssue = "Add missing contact details: " + strings.Join(missing, ", ")
	}
	b.set("completeness", float64(present)*25, completenessIssue)

	if info.CustomURL {
		b.set("customURL", 100, "")
	} else {
		b.set("customURL", 0, "Claim a custom profile URL")
	}

	return b.build(contactInfoWeights, 1)
}

// validField reports whether value is non-empty and passes the validator tag.
func validField(value, tag string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return contactValidator.Var(value, tag) == nil
}

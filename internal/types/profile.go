// Package types provides type definitions for structured data used throughout the profile-optimizer system.
package types

// Profile is the working professional-profile document scored by the engine.
// All fields are optional; scorers define their own behavior for absent values.
type Profile struct {
	Headline        string           `json:"headline,omitempty"`
	About           string           `json:"about,omitempty"`
	Experiences     []Experience     `json:"experiences,omitempty"`
	Skills          []string         `json:"skills,omitempty"` // Ordered: the first five carry the most weight
	Education       []Education      `json:"education,omitempty"`
	Photo           *PhotoAnalysis   `json:"photo,omitempty"` // nil when no photo is set
	Certifications  []Certification  `json:"certifications,omitempty"`
	Volunteering    []Volunteering   `json:"volunteering,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Featured        []FeaturedItem   `json:"featured,omitempty"`
	Interests       []string         `json:"interests,omitempty"`
	ContactInfo     *ContactInfo     `json:"contact_info,omitempty"`
}

// Experience is a single role. The first entry in Profile.Experiences is the most recent.
type Experience struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Duration string   `json:"duration,omitempty"` // Free text, e.g. "Jan 2021 - Present"
	Bullets  []string `json:"bullets,omitempty"`
}

// Education is a single education entry.
type Education struct {
	School     string   `json:"school"`
	Degree     string   `json:"degree,omitempty"`
	Field      string   `json:"field,omitempty"`
	Year       int      `json:"year,omitempty"` // Graduation year; <= 0 means unknown
	GPA        *float64 `json:"gpa,omitempty"`  // 0-4.0 scale; out-of-range values are ignored
	Coursework []string `json:"coursework,omitempty"`
	Honors     *bool    `json:"honors,omitempty"`
}

// PhotoAnalysis is the output of an external image-analysis step for the profile photo.
type PhotoAnalysis struct {
	FaceRatio  float64 `json:"face_ratio,omitempty"` // Share of the frame occupied by the face (0-1)
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Sharpness  float64 `json:"sharpness,omitempty"`  // 0-1, 0 when not measured
	Attire     string  `json:"attire,omitempty"`     // professional | business_casual | casual
	Expression string  `json:"expression,omitempty"` // smiling | neutral | serious
	Background string  `json:"background,omitempty"` // plain | office | outdoor | busy
}

// Certification is a license or certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Volunteering is a volunteer experience entry.
type Volunteering struct {
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
	Cause        string `json:"cause,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Recommendation is a received recommendation.
type Recommendation struct {
	Author       string `json:"author"`
	Relationship string `json:"relationship,omitempty"`
	Text         string `json:"text,omitempty"`
}

// FeaturedItem is a pinned post, link, or media item.
type FeaturedItem struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Kind  string `json:"kind,omitempty"` // post | article | link | media
}

// ContactInfo holds the profile's contact details.
type ContactInfo struct {
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
	Location  string `json:"location,omitempty"`
	CustomURL bool   `json:"custom_url,omitempty"` // Profile uses a vanity URL
}

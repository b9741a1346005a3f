package types

import (
	"github.com/go-playground/validator/v10"
)

// CareerLevel is the seniority of the target role.
type CareerLevel string

// Career levels understood by the scorers. An empty level is treated as mid.
const (
	CareerEntry     CareerLevel = "entry"
	CareerMid       CareerLevel = "mid"
	CareerSenior    CareerLevel = "senior"
	CareerExecutive CareerLevel = "executive"
)

// JobContext describes the target role a profile is scored against.
type JobContext struct {
	Keywords    []string    `json:"keywords,omitempty"` // Relevance-ordered, most important first
	TargetRoles []string    `json:"target_roles,omitempty"`
	Industry    string      `json:"industry,omitempty"`
	CareerLevel CareerLevel `json:"career_level,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
	AsOfYear    int         `json:"as_of_year,omitempty" validate:"omitempty,gte=1900,lte=3000"` // Reference year for recency; 0 = unknown
}

// Validate validates the JobContext using the validator.
func (c *JobContext) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

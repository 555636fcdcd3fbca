package types

import "github.com/go-playground/validator/v10"

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	Field      string            `json:"field" validate:"required"`
	Category   string            `json:"category" validate:"required"`
	Phone      *string           `json:"phone"`
	ResumeText string            `json:"resumeText" validate:"required"`
	Overrides  *CandidateProfile `json:"overrides,omitempty"`
}

// RecommendResponse is the body returned by POST /recommend.
type RecommendResponse struct {
	Jobs []RankedListing `json:"jobs"`
}

// ProfileSubmission is the body of POST /api/submit-profile.
type ProfileSubmission struct {
	CandidateProfile
	SMSNotifications bool `json:"smsNotifications"`
}

// ExtractRequest is the JSON form of POST /extract.
type ExtractRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
}

// ExtractResponse is returned by POST /extract.
type ExtractResponse struct {
	Profile CandidateProfile `json:"profile"`
	Missing []ProfileField   `json:"missing"`
	Text    string           `json:"text"`
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

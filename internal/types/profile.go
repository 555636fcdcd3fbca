// Package types provides type definitions for structured data used throughout the internmatch system.
package types

import "strings"

// CandidateProfile is the structured view of a resume used for matching.
// Every field may be empty; an empty field means extraction found nothing and the
// caller should ask the user for it.
type CandidateProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	City           string `json:"city"`
	Skills         string `json:"techStacks"`
	Experience     string `json:"experience"`
	PreferredRole  string `json:"preferredRole"`
	ProjectSummary string `json:"projectDetails"`
}

// ProfileField names a CandidateProfile field by its JSON key.
type ProfileField string

const (
	FieldName           ProfileField = "name"
	FieldEmail          ProfileField = "email"
	FieldPhone          ProfileField = "phone"
	FieldLocation       ProfileField = "location"
	FieldCity           ProfileField = "city"
	FieldSkills         ProfileField = "techStacks"
	FieldExperience     ProfileField = "experience"
	FieldPreferredRole  ProfileField = "preferredRole"
	FieldProjectSummary ProfileField = "projectDetails"
)

// WithOverrides returns a copy of p where every non-empty field of overrides replaces
// the corresponding field of p. Neither input is modified.
func (p CandidateProfile) WithOverrides(overrides CandidateProfile) CandidateProfile {
	out := p
	overlay := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = strings.TrimSpace(src)
		}
	}
	overlay(&out.Name, overrides.Name)
	overlay(&out.Email, overrides.Email)
	overlay(&out.Phone, overrides.Phone)
	overlay(&out.Location, overrides.Location)
	overlay(&out.City, overrides.City)
	overlay(&out.Skills, overrides.Skills)
	overlay(&out.Experience, overrides.Experience)
	overlay(&out.PreferredRole, overrides.PreferredRole)
	overlay(&out.ProjectSummary, overrides.ProjectSummary)
	return out
}

// SkillList splits Skills on commas and returns the trimmed tokens in their original
// case. Empty tokens and case-insensitive duplicates are dropped; order is preserved.
func (p CandidateProfile) SkillList() []string {
	parts := strings.Split(p.Skills, ",")
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill)
	}
	return out
}

// PreferredLocation returns City when set, otherwise Location.
func (p CandidateProfile) PreferredLocation() string {
	if strings.TrimSpace(p.City) != "" {
		return strings.TrimSpace(p.City)
	}
	return strings.TrimSpace(p.Location)
}

// MissingFields lists the fields extraction left empty, in declaration order.
func (p CandidateProfile) MissingFields() []ProfileField {
	fields := []struct {
		name  ProfileField
		value string
	}{
		{FieldName, p.Name},
		{FieldEmail, p.Email},
		{FieldPhone, p.Phone},
		{FieldLocation, p.Location},
		{FieldCity, p.City},
		{FieldSkills, p.Skills},
		{FieldExperience, p.Experience},
		{FieldPreferredRole, p.PreferredRole},
		{FieldProjectSummary, p.ProjectSummary},
	}

	var missing []ProfileField
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

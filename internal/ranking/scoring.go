// Package ranking scores listings against a candidate profile with a fixed,
// deterministic set of keyword weights.
package ranking

import (
	"strings"

	"github.com/jonathan/internmatch/internal/types"
)

// Weights for each scoring component
const (
	roleMatchWeight     = 20 // preferred role appears in the title
	titleSkillWeight    = 10 // per skill in the title, only when the role did not match
	skillMentionWeight  = 5  // per skill in the title or description
	locationMatchWeight = 5  // candidate location in the title or company, once
)

// criteria is a profile reduced to the lower-cased terms scoring looks for.
type criteria struct {
	role     string
	skills   []string
	location string
}

func newCriteria(p types.CandidateProfile) criteria {
	return criteria{
		role:     strings.ToLower(strings.TrimSpace(p.PreferredRole)),
		skills:   normalizeSkills(p.Skills),
		location: strings.ToLower(p.PreferredLocation()),
	}
}

// normalizeSkills splits a comma-separated skill string into lower-cased,
// trimmed, de-duplicated tokens.
func normalizeSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		s := strings.ToLower(strings.TrimSpace(part))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// computeRoleScore awards the role weight when the title contains the preferred
// role, otherwise the per-skill title weight for each skill in the title.
func computeRoleScore(c criteria, title string) int {
	if c.role != "" && strings.Contains(title, c.role) {
		return roleMatchWeight
	}
	score := 0
	for _, skill := range c.skills {
		if strings.Contains(title, skill) {
			score += titleSkillWeight
		}
	}
	return score
}

// computeSkillScore counts skills mentioned anywhere in the title or description.
func computeSkillScore(c criteria, title, description string) int {
	score := 0
	for _, skill := range c.skills {
		if strings.Contains(title, skill) || strings.Contains(description, skill) {
			score += skillMentionWeight
		}
	}
	return score
}

// computeLocationScore checks the title and company name for the candidate's location.
func computeLocationScore(c criteria, title, company string) int {
	if c.location != "" && (strings.Contains(title, c.location) || strings.Contains(company, c.location)) {
		return locationMatchWeight
	}
	return 0
}

func (c criteria) score(l types.RawListing) int {
	title := strings.ToLower(l.Title)
	description := strings.ToLower(l.Description)
	company := strings.ToLower(l.Company)

	return computeRoleScore(c, title) +
		computeSkillScore(c, title, description) +
		computeLocationScore(c, title, company)
}

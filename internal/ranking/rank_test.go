package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internmatch/internal/types"
)

func raw(title, company, description string) types.RawListing {
	return types.RawListing{Title: title, Company: company, Description: description}
}

func TestRank_Scenario(t *testing.T) {
	profile := types.CandidateProfile{PreferredRole: "data analyst", Skills: "python, sql", City: "Pune"}
	listings := []types.RawListing{
		raw("Data Analyst Intern", "Acme Pune", "python required"),
		raw("Sales Rep", "Acme", ""),
	}

	ranked := Rank(listings, profile)

	require.Len(t, ranked, 1)
	assert.Equal(t, "Data Analyst Intern", ranked[0].Title)
	assert.Equal(t, 30, ranked[0].MatchScore)
}

func TestScore_Components(t *testing.T) {
	tests := []struct {
		name    string
		profile types.CandidateProfile
		listing types.RawListing
		want    int
	}{
		{
			name:    "role match suppresses per-skill title bonus",
			profile: types.CandidateProfile{PreferredRole: "react developer", Skills: "react"},
			listing: raw("React Developer Intern", "X", ""),
			want:    roleMatchWeight + skillMentionWeight,
		},
		{
			name:    "skills in title without role",
			profile: types.CandidateProfile{Skills: "react, node.js"},
			listing: raw("React Node.js Intern", "X", ""),
			want:    2*titleSkillWeight + 2*skillMentionWeight,
		},
		{
			name:    "skill in description only",
			profile: types.CandidateProfile{Skills: "Go"},
			listing: raw("Backend Intern", "X", "we use GO and postgres"),
			want:    skillMentionWeight,
		},
		{
			name:    "location falls back to location field",
			profile: types.CandidateProfile{Location: "Mumbai", Skills: "none"},
			listing: raw("Intern", "Mumbai Labs", ""),
			want:    locationMatchWeight,
		},
		{
			name:    "location bonus is awarded once",
			profile: types.CandidateProfile{City: "Delhi"},
			listing: raw("Delhi Intern", "Delhi Corp", ""),
			want:    locationMatchWeight,
		},
		{
			name:    "duplicate skills count once",
			profile: types.CandidateProfile{Skills: "SQL, sql , ,Sql"},
			listing: raw("Intern", "X", "sql"),
			want:    skillMentionWeight,
		},
		{
			name:    "empty profile",
			profile: types.CandidateProfile{},
			listing: raw("Anything", "X", "y"),
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.listing, tt.profile))
		})
	}
}

func TestRank_Deterministic(t *testing.T) {
	profile := types.CandidateProfile{Skills: "go, docker", City: "Pune"}
	listings := []types.RawListing{
		raw("Go Intern", "A", ""),
		raw("Docker Intern", "B", ""),
		raw("Intern", "Pune Co", "go"),
		raw("Go Docker Intern", "C", ""),
		raw("Unrelated", "D", ""),
	}

	first := Rank(listings, profile)
	second := Rank(listings, profile)
	assert.Equal(t, first, second)
}

func TestRank_StableOnTies(t *testing.T) {
	profile := types.CandidateProfile{Skills: "go"}
	listings := []types.RawListing{
		raw("Go Intern A", "1", ""),
		raw("Top Go Docker", "2", "docker"),
		raw("Go Intern B", "3", ""),
		raw("Go Intern C", "4", ""),
	}

	ranked := Rank(listings, profile)
	require.Len(t, ranked, 4)
	companies := []string{ranked[0].Company, ranked[1].Company, ranked[2].Company, ranked[3].Company}
	assert.Equal(t, []string{"1", "2", "3", "4"}, companies, "equal scores keep input order")
}

func TestRank_SortedDescending(t *testing.T) {
	profile := types.CandidateProfile{PreferredRole: "ml intern", Skills: "python", City: "Chennai"}
	listings := []types.RawListing{
		raw("Chennai Office Assistant", "X", ""),
		raw("ML Intern", "Chennai AI", "python"),
		raw("Python Intern", "Y", ""),
	}

	ranked := Rank(listings, profile)
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].MatchScore, ranked[i].MatchScore)
	}
	assert.Equal(t, "ML Intern", ranked[0].Title)
}

func TestScore_RoleMatchMonotonic(t *testing.T) {
	listings := []types.RawListing{
		raw("Data Analyst Intern", "Acme", "python"),
		raw("Python Data Analyst", "Acme", ""),
		raw("Python SQL Data Analyst Trainee", "Acme", "sql"),
	}
	without := types.CandidateProfile{Skills: "python, sql"}
	with := types.CandidateProfile{Skills: "python, sql", PreferredRole: "data analyst"}

	for _, l := range listings {
		assert.GreaterOrEqual(t, Score(l, with), Score(l, without), l.Title)
	}
}

func TestTop(t *testing.T) {
	ranked := []types.RankedListing{{MatchScore: 3}, {MatchScore: 2}, {MatchScore: 1}}

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 10), 3)
	assert.Len(t, Top(ranked, 0), 3)
}

package ranking

import (
	"sort"

	"github.com/jonathan/internmatch/internal/types"
)

// Score returns the relevance of one listing to profile.
func Score(listing types.RawListing, profile types.CandidateProfile) int {
	return newCriteria(profile).score(listing)
}

// Rank scores every listing against profile, drops zero scores and sorts by
// score descending. Listings with equal scores keep their input order.
func Rank(listings []types.RawListing, profile types.CandidateProfile) []types.RankedListing {
	c := newCriteria(profile)

	ranked := make([]types.RankedListing, 0, len(listings))
	for _, l := range listings {
		if s := c.score(l); s > 0 {
			ranked = append(ranked, types.RankedListing{RawListing: l, MatchScore: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

// Top returns at most n listings from ranked. A non-positive n returns all of them.
func Top(ranked []types.RankedListing, n int) []types.RankedListing {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

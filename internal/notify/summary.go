package notify

import (
	"fmt"
	"strings"

	"github.com/jonathan/internmatch/internal/types"
)

// SummaryListings is how many listings a summary message mentions.
const SummaryListings = 3

// RecommendationSummary lists the top ranked listings with their links. With
// nothing ranked it is just the header line.
func RecommendationSummary(listings []types.RankedListing) string {
	var b strings.Builder
	b.WriteString("Your PM Internship Recommendations:")
	for i, l := range listings {
		if i == SummaryListings {
			break
		}
		fmt.Fprintf(&b, "\n%s at %s: %s", l.Title, l.Company, l.Link)
	}
	return b.String()
}

// ProfileSummary greets the candidate by name and lists the top matches.
func ProfileSummary(name string, total int, listings []types.RankedListing) string {
	if total == 0 || len(listings) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! We found %d internship opportunities for you.\n\n", name, total)
	for i, l := range listings {
		if i == SummaryListings {
			break
		}
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, l.Title, l.Company)
	}
	b.WriteString("\nCheck your email for more details!")
	return b.String()
}

package sources

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/types"
)

const (
	pmisURL      = "https://www.myscheme.gov.in/schemes/pmis"
	pmisTitle    = "Pradhan Mantri Internship Scheme (PMIS)"
	pmisCompany  = "Government of India"
	pmisLocation = "India"
	pmisDuration = "12 months (at least half in working environment)"
	pmisMaxItems = 8
)

// NewMyScheme returns the adapter for the government PM Internship Scheme page.
// The page describes a single scheme, so it always yields exactly one listing.
func NewMyScheme() *Site {
	return &Site{
		name:         MySchemeName,
		waitSelector: "body",
		buildURL:     func(types.Query) string { return pmisURL },
		normalize:    normalizeMyScheme,
	}
}

func normalizeMyScheme(html, pageURL string) ([]types.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	first := func(selector, fallback string) string {
		if v := fetch.Text(doc.Find(selector).First()); v != "" {
			return v
		}
		return fallback
	}
	items := func(selector, fallback string) string {
		var out []string
		doc.Find(selector).EachWithBreak(func(_ int, li *goquery.Selection) bool {
			if v := fetch.Text(li); v != "" {
				out = append(out, v)
			}
			return len(out) < pmisMaxItems
		})
		if len(out) == 0 {
			return fallback
		}
		return strings.Join(out, "\n")
	}

	description := first(".scheme-overview, .scheme-description, .content-section, p", "Pradhan Mantri Internship Scheme for youth in India.")
	eligibility := items(".eligibility-section ul li, .eligibility-list li", "Youth aged 21-24, as per PMIS guidelines.")
	benefits := items(".benefits-section ul li, .benefits-list li", "Stipend, training, exposure.")
	application := first(".application-process, .how-to-apply", "Apply via MyScheme portal.")
	stipend := first(".stipend-details", "As per scheme guidelines")

	summary := fmt.Sprintf("Description: %s\nEligibility:\n%s\nBenefits:\n%s\nApplication: %s\nDuration: %s",
		description, eligibility, benefits, application, pmisDuration)

	return []types.RawListing{
		types.NewRawListing(MySchemeName, first("h1", pmisTitle), pmisCompany, pmisLocation, summary, stipend, pageURL),
	}, nil
}

package sources

import (
	"net/url"
	"strings"

	"github.com/jonathan/internmatch/internal/types"
)

// Source names, as used in configuration.
const (
	IndeedName      = "indeed"
	LinkedInName    = "linkedin"
	GlassdoorName   = "glassdoor"
	InternshalaName = "internshala"
	MySchemeName    = "myscheme"
	GoogleName      = "google"
)

var indeedSelectors = cardSelectors{
	Card:        ".jobsearch-JobComponent, .job_seen_beacon",
	Title:       ".jobTitle",
	Company:     ".companyName, [data-testid='company-name']",
	Location:    ".companyLocation, [data-testid='text-location']",
	Description: ".job-snippet",
	Salary:      ".salary-snippet, .salary-snippet-container",
	Link:        "a",
}

// NewIndeed returns the Indeed adapter.
func NewIndeed() *Site {
	return &Site{
		name:         IndeedName,
		waitSelector: indeedSelectors.Card,
		buildURL: func(q types.Query) string {
			v := url.Values{}
			v.Set("q", strings.TrimSpace(q.Field+" internship"))
			v.Set("l", q.Category)
			return "https://www.indeed.com/jobs?" + v.Encode()
		},
		normalize: func(html, pageURL string) ([]types.RawListing, error) {
			return normalizeCards(IndeedName, html, pageURL, indeedSelectors)
		},
	}
}

var linkedInSelectors = cardSelectors{
	Card:        ".job-card-container, .base-search-card",
	Title:       "h3.base-search-card__title",
	Company:     "h4.base-search-card__subtitle",
	Location:    ".base-search-card__metadata span.job-search-card__location",
	Description: ".job-search-card__snippet",
	Salary:      ".job-search-card__salary-info",
	Link:        "a",
}

// NewLinkedIn returns the LinkedIn public job search adapter.
func NewLinkedIn() *Site {
	return &Site{
		name:         LinkedInName,
		waitSelector: linkedInSelectors.Card,
		buildURL: func(q types.Query) string {
			v := url.Values{}
			v.Set("keywords", strings.TrimSpace(q.Field+" internship"))
			v.Set("location", q.Category)
			return "https://www.linkedin.com/jobs/search/?" + v.Encode()
		},
		normalize: func(html, pageURL string) ([]types.RawListing, error) {
			listings, err := normalizeCards(LinkedInName, html, pageURL, linkedInSelectors)
			if err != nil {
				return nil, err
			}
			kept := listings[:0]
			for _, l := range listings {
				if isInternTitle(l.Title, linkedInTerms) {
					kept = append(kept, l)
				}
			}
			return kept, nil
		},
	}
}

var glassdoorSelectors = cardSelectors{
	Card:        `li[data-test="jobListing"]`,
	Title:       `[data-test="jobTitle"]`,
	Company:     `[data-test="employerName"]`,
	Location:    `[data-test="location"]`,
	Description: ".jobCardShelfItem",
	Salary:      `[data-test="detailSalary"]`,
	Link:        "a",
}

// NewGlassdoor returns the Glassdoor adapter, restricted to internship job types.
func NewGlassdoor() *Site {
	return &Site{
		name:         GlassdoorName,
		waitSelector: glassdoorSelectors.Card,
		buildURL: func(q types.Query) string {
			v := url.Values{}
			v.Set("typedKeyword", strings.TrimSpace(q.Field+" internship"))
			v.Set("locKeyword", q.Category)
			v.Set("locT", "C")
			v.Set("jobType", "intern")
			v.Set("fromAge", "-1")
			v.Set("includeNoSalaryJobs", "true")
			v.Set("radius", "25")
			return "https://www.glassdoor.com/Job/jobs.htm?" + v.Encode()
		},
		normalize: func(html, pageURL string) ([]types.RawListing, error) {
			return normalizeCards(GlassdoorName, html, pageURL, glassdoorSelectors)
		},
	}
}

var internshalaSelectors = cardSelectors{
	Card:        ".individual_internship, div.internship_details",
	Title:       ".job-internship-name, .profile, a.view_detail_button",
	Company:     ".company-name, a.company_name",
	Location:    ".locations, .location_link",
	Description: ".about_job .text, .internship_other_details_container",
	Salary:      ".stipend",
	Link:        ".job-title-href, a.view_detail_button, .job-internship-name a",
}

// NewInternshala returns the Internshala adapter. Internshala renders listings
// server-side, so it works with the HTTP pool as well as the browser pool.
func NewInternshala() *Site {
	return &Site{
		name:         InternshalaName,
		waitSelector: internshalaSelectors.Card,
		buildURL: func(q types.Query) string {
			path := "internship"
			if f := slug(q.Field); f != "" {
				path = f + "-internship"
			}
			if c := slug(q.Category); c != "" {
				path += "-in-" + c
			}
			return "https://internshala.com/internships/" + path + "/"
		},
		normalize: func(html, pageURL string) ([]types.RawListing, error) {
			return normalizeCards(InternshalaName, html, pageURL, internshalaSelectors)
		},
	}
}

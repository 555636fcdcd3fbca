package types

import "strings"

// NotAvailable is the sentinel adapters store in any listing field they cannot populate.
const NotAvailable = "N/A"

// Query is what every site adapter is asked for.
type Query struct {
	Field    string `json:"field"`    // role or field keyword, e.g. "data analyst"
	Category string `json:"category"` // location the listings must be in
	Limit    int    `json:"limit,omitempty"`
}

// RawListing is an unscored, normalized posting produced by a site adapter.
type RawListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
	Link        string `json:"link"`
	Source      string `json:"source"`
}

// RankedListing is a RawListing with the relevance score computed against a profile.
type RankedListing struct {
	RawListing
	MatchScore int `json:"matchScore"`
}

// NewRawListing builds a listing for source, trimming every field and substituting
// NotAvailable for anything empty.
func NewRawListing(source, title, company, location, description, salary, link string) RawListing {
	orNA := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return NotAvailable
		}
		return s
	}
	return RawListing{
		Title:       orNA(title),
		Company:     orNA(company),
		Location:    orNA(location),
		Description: orNA(description),
		Salary:      orNA(salary),
		Link:        orNA(link),
		Source:      source,
	}
}

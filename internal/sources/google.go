package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/types"
)

// googleMaxResults is the most results a single Custom Search request may return.
const googleMaxResults = 10

var internTerms = []string{"intern", "trainee"}

// linkedInTerms also admits graduate roles, which LinkedIn lists alongside internships.
var linkedInTerms = []string{"intern", "trainee", "graduate"}

// Google searches the web through the Custom Search JSON API. It is meant as a
// fallback when the job boards return nothing.
type Google struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle creates the adapter. Extra client options are passed to the API client.
func NewGoogle(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*Google, error) {
	if apiKey == "" || cx == "" {
		return nil, errors.New("google search requires an API key and a search engine id")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Google{svc: svc, cx: cx}, nil
}

func (g *Google) Name() string { return GoogleName }

func (g *Google) Pageless() bool { return true }

// SearchQuery is the web query sent for q.
func (g *Google) SearchQuery(q types.Query) string {
	return strings.Join(strings.Fields(fmt.Sprintf("internship %s in %s", q.Field, q.Category)), " ")
}

func (g *Google) Fetch(ctx context.Context, _ fetch.Page, q types.Query) ([]types.RawListing, error) {
	num := int64(googleMaxResults)
	if q.Limit > 0 && q.Limit < googleMaxResults {
		num = int64(q.Limit)
	}

	resp, err := g.svc.Cse.List().Cx(g.cx).Q(g.SearchQuery(q)).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, Unavailable(GoogleName, err)
	}

	var listings []types.RawListing
	for _, item := range resp.Items {
		if item == nil || !isInternTitle(item.Title, internTerms) {
			continue
		}
		// search results carry no structured location; the query already scoped it
		listings = append(listings, types.NewRawListing(
			GoogleName, item.Title, "", q.Category, item.Snippet, "", item.Link,
		))
	}
	return limit(listings, q.Limit), nil
}

func isInternTitle(title string, terms []string) bool {
	lower := strings.ToLower(title)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

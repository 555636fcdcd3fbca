package sources

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/types"
)

// cardSelectors locate the fields of one listing card. Empty selectors are skipped.
type cardSelectors struct {
	Card        string
	Title       string
	Company     string
	Location    string
	Description string
	Salary      string
	Link        string
}

// normalizeCards extracts one listing per card. Cards with neither a title nor a
// link are malformed and skipped, as are cards nested inside another card.
func normalizeCards(source, html, pageURL string, sel cardSelectors) ([]types.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, _ := url.Parse(pageURL)
	var listings []types.RawListing
	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		if card.ParentsFiltered(sel.Card).Length() > 0 {
			return
		}
		title := field(card, sel.Title)
		link := href(card, sel.Link, base)
		if title == "" && link == "" {
			return
		}
		listings = append(listings, types.NewRawListing(
			source,
			title,
			field(card, sel.Company),
			field(card, sel.Location),
			field(card, sel.Description),
			field(card, sel.Salary),
			link,
		))
	})
	return listings, nil
}

func field(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return fetch.Text(card.Find(selector).First())
}

// href returns the absolute URL of the first link matching selector.
func href(card *goquery.Selection, selector string, base *url.URL) string {
	if selector == "" {
		return ""
	}
	a := card.Find(selector).First()
	if a.Length() == 0 && card.Is(selector) {
		a = card
	}
	raw, ok := a.Attr("href")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || strings.HasPrefix(raw, "javascript:") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slug lowercases s and joins its words with hyphens.
func slug(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Package sources contains one Adapter per external job board. Each adapter knows
// how to build a search URL for a Query and how to turn the rendered page into
// RawListings; rendering itself is delegated to a fetch.Page.
package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/types"
)

// Adapter fetches listings from one external source.
type Adapter interface {
	Name() string
	// Fetch returns the listings found for q. The only error it returns is
	// *SourceUnavailableError.
	Fetch(ctx context.Context, page fetch.Page, q types.Query) ([]types.RawListing, error)
}

// Pageless is implemented by adapters that talk to an API instead of rendering
// a page. The aggregator does not lease a page for them.
type Pageless interface {
	Pageless() bool
}

// IsPageless reports whether a should be called without a page.
func IsPageless(a Adapter) bool {
	p, ok := a.(Pageless)
	return ok && p.Pageless()
}

// SourceUnavailableError means a source could not produce listings this time:
// a timeout, a network failure or markup that no longer matches.
type SourceUnavailableError struct {
	Source string
	Cause  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Cause
}

// Unavailable wraps err for source unless it already is a SourceUnavailableError.
func Unavailable(source string, err error) error {
	var su *SourceUnavailableError
	if errors.As(err, &su) {
		return su
	}
	return &SourceUnavailableError{Source: source, Cause: err}
}

// Site is an Adapter for a board that is scraped from rendered HTML.
type Site struct {
	name         string
	waitSelector string
	buildURL     func(types.Query) string
	normalize    func(html, pageURL string) ([]types.RawListing, error)
}

func (s *Site) Name() string { return s.name }

// BuildURL returns the search URL for q. It is pure.
func (s *Site) BuildURL(q types.Query) string { return s.buildURL(q) }

// Normalize parses rendered HTML into listings. It is pure.
func (s *Site) Normalize(html, pageURL string) ([]types.RawListing, error) {
	return s.normalize(html, pageURL)
}

// WaitSelector is the element whose presence marks the page as rendered.
func (s *Site) WaitSelector() string { return s.waitSelector }

func (s *Site) Fetch(ctx context.Context, page fetch.Page, q types.Query) ([]types.RawListing, error) {
	pageURL := s.buildURL(q)
	html, err := page.Render(ctx, fetch.RenderRequest{URL: pageURL, WaitSelector: s.waitSelector})
	if err != nil {
		return nil, Unavailable(s.name, err)
	}

	listings, err := s.normalize(html, pageURL)
	if err != nil {
		return nil, Unavailable(s.name, fmt.Errorf("normalize: %w", err))
	}
	return limit(listings, q.Limit), nil
}

func limit(listings []types.RawListing, n int) []types.RawListing {
	if n > 0 && len(listings) > n {
		return listings[:n]
	}
	return listings
}

// Package aggregate queries every configured source concurrently and merges
// what they return. A failing source never fails the whole request.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internmatch/internal/fetch"
	"github.com/jonathan/internmatch/internal/sources"
	"github.com/jonathan/internmatch/internal/types"
)

// DefaultConcurrency bounds how many sources are fetched at once.
const DefaultConcurrency = 4

// SourceReport records the outcome for one source.
type SourceReport struct {
	Source     string `json:"source"`
	Listings   int    `json:"listings"`
	Attempts   int    `json:"attempts"`
	DurationMS int64  `json:"durationMs"`
	Fallback   bool   `json:"fallback,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether the source produced an error.
func (r SourceReport) Failed() bool { return r.Error != "" }

// Report summarizes one Aggregate call.
type Report struct {
	Sources []SourceReport `json:"sources"`
	// Total is the number of listings fetched before the location filter.
	Total int `json:"total"`
	// Kept is the number of listings returned.
	Kept         int  `json:"kept"`
	UsedFallback bool `json:"usedFallback"`
}

// AllFailed is true when every queried source returned an error.
func (r Report) AllFailed() bool {
	if len(r.Sources) == 0 {
		return false
	}
	for _, s := range r.Sources {
		if !s.Failed() {
			return false
		}
	}
	return true
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency sets how many sources may be in flight at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithRetry makes each source try up to attempts times, waiting backoff between
// tries. Every attempt leases a fresh page.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(a *Aggregator) {
		if attempts > 0 {
			a.attempts = attempts
		}
		a.backoff = backoff
	}
}

// WithFallback sets adapters that run only when the primary sources return nothing.
func WithFallback(adapters ...sources.Adapter) Option {
	return func(a *Aggregator) { a.fallback = append(a.fallback, adapters...) }
}

// WithDedupe drops listings that repeat an earlier title, company and link.
func WithDedupe() Option {
	return func(a *Aggregator) { a.dedupe = true }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Aggregator fans a Query out to adapters and fans the results back in.
type Aggregator struct {
	pool        fetch.Pool
	primary     []sources.Adapter
	fallback    []sources.Adapter
	concurrency int
	attempts    int
	backoff     time.Duration
	dedupe      bool
	logger      *zap.Logger
}

// New creates an Aggregator over adapters, leasing pages from pool.
func New(pool fetch.Pool, adapters []sources.Adapter, opts ...Option) *Aggregator {
	a := &Aggregator{
		pool:        pool,
		primary:     adapters,
		concurrency: DefaultConcurrency,
		attempts:    1,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sources lists the primary and fallback adapter names in query order.
func (a *Aggregator) Sources() []string {
	names := make([]string, 0, len(a.primary)+len(a.fallback))
	for _, ad := range a.primary {
		names = append(names, ad.Name())
	}
	for _, ad := range a.fallback {
		names = append(names, ad.Name())
	}
	return names
}

// Aggregate queries every source and returns the listings whose location contains
// q.Category, in source declaration order. Source failures are recorded in the
// Report, not returned. The only error is ctx's, once every task has finished.
func (a *Aggregator) Aggregate(ctx context.Context, q types.Query) ([]types.RawListing, Report, error) {
	start := time.Now()

	merged, reports := a.runTier(ctx, a.primary, q, false)
	report := Report{Sources: reports, Total: len(merged)}

	if len(merged) == 0 && len(a.fallback) > 0 && ctx.Err() == nil {
		a.logger.Info("no listings from primary sources, querying fallback",
			zap.Int("fallback_sources", len(a.fallback)))
		merged, reports = a.runTier(ctx, a.fallback, q, true)
		report.Sources = append(report.Sources, reports...)
		report.Total = len(merged)
		report.UsedFallback = true
	}

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	kept := filterByLocation(merged, q.Category)
	if a.dedupe {
		kept = dedupe(kept)
	}
	report.Kept = len(kept)

	a.logger.Info("aggregation finished",
		zap.String("field", q.Field),
		zap.String("category", q.Category),
		zap.Int("fetched", report.Total),
		zap.Int("kept", report.Kept),
		zap.Bool("all_failed", report.AllFailed()),
		zap.Duration("duration", time.Since(start)),
	)
	return kept, report, nil
}

// runTier fetches from adapters concurrently and concatenates the results in
// adapter order.
func (a *Aggregator) runTier(ctx context.Context, adapters []sources.Adapter, q types.Query, fallback bool) ([]types.RawListing, []SourceReport) {
	results := make([][]types.RawListing, len(adapters))
	reports := make([]SourceReport, len(adapters))

	// a plain Group: one source failing must not cancel its siblings
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, ad := range adapters {
		g.Go(func() error {
			taskStart := time.Now()
			listings, attempts, err := a.fetchWithRetry(ctx, ad, q)
			elapsed := time.Since(taskStart)

			rep := SourceReport{
				Source:     ad.Name(),
				Listings:   len(listings),
				Attempts:   attempts,
				DurationMS: elapsed.Milliseconds(),
				Fallback:   fallback,
			}
			if err != nil {
				rep.Error = err.Error()
				a.logger.Warn("source unavailable",
					zap.String("source", ad.Name()),
					zap.Int("attempts", attempts),
					zap.Error(err),
				)
			} else {
				results[i] = listings
				a.logger.Debug("source fetched",
					zap.String("source", ad.Name()),
					zap.Int("listings", len(listings)),
					zap.Duration("duration", elapsed),
				)
			}
			reports[i] = rep
			return nil
		})
	}
	_ = g.Wait()

	var merged []types.RawListing
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, reports
}

func (a *Aggregator) fetchWithRetry(ctx context.Context, ad sources.Adapter, q types.Query) ([]types.RawListing, int, error) {
	var err error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		var listings []types.RawListing
		listings, err = a.fetchOnce(ctx, ad, q)
		if err == nil {
			return listings, attempt, nil
		}
		if attempt == a.attempts || ctx.Err() != nil {
			return nil, attempt, err
		}
		if a.backoff > 0 {
			timer := time.NewTimer(a.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, attempt, err
			case <-timer.C:
			}
		}
	}
	return nil, a.attempts, err
}

// fetchOnce leases a page for the duration of one Fetch call. Panics inside the
// adapter are converted into SourceUnavailableError.
func (a *Aggregator) fetchOnce(ctx context.Context, ad sources.Adapter, q types.Query) (listings []types.RawListing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listings = nil
			err = &sources.SourceUnavailableError{Source: ad.Name(), Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	var page fetch.Page
	if !sources.IsPageless(ad) {
		page, err = a.pool.Acquire(ctx)
		if err != nil {
			return nil, sources.Unavailable(ad.Name(), fmt.Errorf("acquire page: %w", err))
		}
		defer func() { _ = page.Close() }()
	}

	listings, err = ad.Fetch(ctx, page, q)
	if err != nil {
		return nil, sources.Unavailable(ad.Name(), err)
	}
	return listings, nil
}

// filterByLocation keeps listings whose location contains category, ignoring case.
func filterByLocation(listings []types.RawListing, category string) []types.RawListing {
	want := strings.ToLower(strings.TrimSpace(category))
	kept := make([]types.RawListing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Location), want) {
			kept = append(kept, l)
		}
	}
	return kept
}

func dedupe(listings []types.RawListing) []types.RawListing {
	type key struct{ title, company, link string }
	seen := make(map[key]bool, len(listings))
	out := listings[:0]
	for _, l := range listings {
		k := key{strings.ToLower(l.Title), strings.ToLower(l.Company), l.Link}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

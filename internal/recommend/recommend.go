// Package recommend turns a resume or a submitted profile into ranked
// internship listings: extract, validate, aggregate, rank and notify.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/internmatch/internal/aggregate"
	"github.com/jonathan/internmatch/internal/extraction"
	"github.com/jonathan/internmatch/internal/notify"
	"github.com/jonathan/internmatch/internal/ranking"
	"github.com/jonathan/internmatch/internal/types"
)

// DefaultMaxResults caps the listings returned for a profile submission.
const DefaultMaxResults = 10

// Notification outcomes reported to the caller.
const (
	NotificationQueued  = "queued"
	NotificationSkipped = "skipped"
)

// Searcher fetches listings for a query. *aggregate.Aggregator implements it.
type Searcher interface {
	Aggregate(ctx context.Context, q types.Query) ([]types.RawListing, aggregate.Report, error)
	Sources() []string
}

// ProgressEvent represents a progress update while a request is served.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called as each step completes.
type ProgressCallback func(event ProgressEvent)

// Result is the outcome of Recommend.
type Result struct {
	Profile      types.CandidateProfile `json:"profile"`
	Jobs         []types.RankedListing  `json:"jobs"`
	Report       aggregate.Report       `json:"report"`
	Notification string                 `json:"notification"`
}

// SubmitResult is the outcome of SubmitProfile, shaped as the HTTP response.
type SubmitResult struct {
	Message      string                   `json:"message"`
	JobsFound    int                      `json:"jobs_found"`
	Matching     int                      `json:"matching"`
	Jobs         []types.RankedListing    `json:"jobs"`
	Sources      []aggregate.SourceReport `json:"sources"`
	Notification string                   `json:"notification"`
}

// Service wires the extractor, the searcher, the ranker and the notifier.
type Service struct {
	extractor  *extraction.Extractor
	searcher   Searcher
	dispatcher *notify.Dispatcher
	maxResults int
	perSource  int
	logger     *zap.Logger
	onProgress ProgressCallback
}

// Option configures a Service.
type Option func(*Service)

// WithExtractor replaces the default extractor.
func WithExtractor(e *extraction.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithDispatcher enables notifications.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithMaxResults caps submitted-profile results. n <= 0 keeps every listing.
func WithMaxResults(n int) Option {
	return func(s *Service) { s.maxResults = n }
}

// WithSourceLimit caps how many listings each source contributes. 0 means no cap.
func WithSourceLimit(n int) Option {
	return func(s *Service) { s.perSource = n }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress registers a callback for step-by-step progress.
func WithProgress(cb ProgressCallback) Option {
	return func(s *Service) { s.onProgress = cb }
}

// New creates a Service that searches with searcher.
func New(searcher Searcher, opts ...Option) *Service {
	s := &Service{
		extractor:  extraction.New(nil),
		searcher:   searcher,
		dispatcher: notify.NewDispatcher(nil, 0, nil),
		maxResults: DefaultMaxResults,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources lists the sources the searcher queries.
func (s *Service) Sources() []string {
	return s.searcher.Sources()
}

// NotificationsEnabled reports whether notifications are delivered.
func (s *Service) NotificationsEnabled() bool {
	return s.dispatcher.Enabled()
}

func (s *Service) emit(step, message string, content any) {
	if s.onProgress != nil {
		s.onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Recommend extracts a profile from the resume text, applies overrides and
// returns every listing that scored above zero. A profile without skills is
// rejected with a *ValidationError before any source is queried.
func (s *Service) Recommend(ctx context.Context, req types.RecommendRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := s.extractor.Extract(req.ResumeText)
	if req.Overrides != nil {
		profile = profile.WithOverrides(*req.Overrides)
	}
	if strings.TrimSpace(profile.PreferredRole) == "" {
		profile.PreferredRole = strings.TrimSpace(req.Field)
	}
	s.emit("extract", fmt.Sprintf("Extracted profile for %q", profile.Name), profile)

	if len(profile.SkillList()) == 0 {
		return nil, &ValidationError{Fields: []types.ProfileField{types.FieldSkills}, Extracted: true}
	}

	q := types.Query{Field: strings.TrimSpace(req.Field), Category: strings.TrimSpace(req.Category), Limit: s.perSource}
	listings, report, err := s.search(ctx, q)
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(listings, profile)
	s.emit("rank", fmt.Sprintf("%d of %d listings matched", len(ranked), len(listings)), nil)

	notification := NotificationSkipped
	if req.Phone != nil && s.dispatcher.Dispatch(notify.RecommendationSummary(ranked), strings.TrimSpace(*req.Phone)) {
		notification = NotificationQueued
	}
	s.emit("notify", "Notification "+notification, nil)

	return &Result{Profile: profile, Jobs: ranked, Report: report, Notification: notification}, nil
}

// SubmitProfile ranks listings for a profile the candidate filled in directly.
// Name, email, skills and location are required.
func (s *Service) SubmitProfile(ctx context.Context, sub types.ProfileSubmission) (*SubmitResult, error) {
	profile := types.CandidateProfile{}.WithOverrides(sub.CandidateProfile)
	if missing := requiredMissing(profile); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	q := types.Query{Field: strings.TrimSpace(profile.PreferredRole), Category: profile.PreferredLocation(), Limit: s.perSource}
	if q.Field == "" {
		q.Field = strings.Join(profile.SkillList(), " ")
	}

	listings, report, err := s.search(ctx, q)
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(listings, profile)
	jobs := ranking.Top(ranked, s.maxResults)
	s.emit("rank", fmt.Sprintf("%d of %d listings matched", len(ranked), len(listings)), nil)

	notification := NotificationSkipped
	if sub.SMSNotifications {
		text := notify.ProfileSummary(profile.Name, report.Total, jobs)
		if s.dispatcher.Dispatch(text, strings.TrimSpace(profile.Phone)) {
			notification = NotificationQueued
		}
	}

	return &SubmitResult{
		Message:      "Profile submitted successfully!",
		JobsFound:    report.Total,
		Matching:     len(ranked),
		Jobs:         jobs,
		Sources:      report.Sources,
		Notification: notification,
	}, nil
}

func (s *Service) search(ctx context.Context, q types.Query) ([]types.RawListing, aggregate.Report, error) {
	s.emit("aggregate", fmt.Sprintf("Searching %d sources for %q in %q", len(s.searcher.Sources()), q.Field, q.Category), nil)

	start := time.Now()
	listings, report, err := s.searcher.Aggregate(ctx, q)
	if err != nil {
		return nil, report, fmt.Errorf("search aborted: %w", err)
	}
	if report.AllFailed() {
		s.logger.Warn("every source failed", zap.String("field", q.Field), zap.String("category", q.Category))
	}
	s.logger.Info("search complete",
		zap.Int("fetched", report.Total),
		zap.Int("kept", len(listings)),
		zap.Duration("duration", time.Since(start)),
	)
	s.emit("aggregate", fmt.Sprintf("Fetched %d listings, %d in %q", report.Total, len(listings), q.Category), report)
	return listings, report, nil
}

func requiredMissing(p types.CandidateProfile) []types.ProfileField {
	var missing []types.ProfileField
	if p.Name == "" {
		missing = append(missing, types.FieldName)
	}
	if p.Email == "" {
		missing = append(missing, types.FieldEmail)
	}
	if len(p.SkillList()) == 0 {
		missing = append(missing, types.FieldSkills)
	}
	if p.Location == "" && p.City == "" {
		missing = append(missing, types.FieldLocation)
	}
	return missing
}

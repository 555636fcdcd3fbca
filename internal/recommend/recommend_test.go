package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internmatch/internal/aggregate"
	"github.com/jonathan/internmatch/internal/notify"
	"github.com/jonathan/internmatch/internal/types"
)

const resume = "Name: Asha Rao\nSkills: React, Node.js\nCity: Bangalore"

type fakeSearcher struct {
	listings []types.RawListing
	report   aggregate.Report
	err      error
	calls    int
	queries  []types.Query
}

func (f *fakeSearcher) Aggregate(_ context.Context, q types.Query) ([]types.RawListing, aggregate.Report, error) {
	f.calls++
	f.queries = append(f.queries, q)
	return f.listings, f.report, f.err
}

func (f *fakeSearcher) Sources() []string { return []string{"indeed", "internshala"} }

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string]string
}

func (r *recordingNotifier) Send(_ context.Context, text, destination string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[string]string{}
	}
	r.sent[destination] = text
	return nil
}

func listings() []types.RawListing {
	return []types.RawListing{
		types.NewRawListing("indeed", "Accounts Intern", "Ledger Co", "Bangalore", "", "", "https://x/1"),
		types.NewRawListing("indeed", "React Developer Intern", "Acme", "Bangalore", "Node.js APIs", "", "https://x/2"),
		types.NewRawListing("internshala", "Node.js Intern", "Bangalore Labs", "Bangalore", "React dashboards", "", "https://x/3"),
	}
}

func strPtr(s string) *string { return &s }

func TestRecommend(t *testing.T) {
	searcher := &fakeSearcher{listings: listings(), report: aggregate.Report{Total: 5, Kept: 3}}
	svc := New(searcher)

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field:      "Web Development",
		Category:   "Bangalore",
		ResumeText: resume,
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Query{{Field: "Web Development", Category: "Bangalore"}}, searcher.queries)
	assert.Equal(t, "Asha Rao", res.Profile.Name)
	assert.Equal(t, "Web Development", res.Profile.PreferredRole, "preferred role defaults to the requested field")

	require.Len(t, res.Jobs, 2, "zero-score listing is dropped")
	assert.Equal(t, "Node.js Intern", res.Jobs[0].Title)
	assert.Equal(t, 25, res.Jobs[0].MatchScore)
	assert.Equal(t, "React Developer Intern", res.Jobs[1].Title)
	assert.Equal(t, 20, res.Jobs[1].MatchScore)
	assert.Equal(t, NotificationSkipped, res.Notification)
}

func TestRecommend_Overrides(t *testing.T) {
	searcher := &fakeSearcher{listings: listings()}
	svc := New(searcher)

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field:      "Web Development",
		Category:   "Bangalore",
		ResumeText: "Name: Asha Rao",
		Overrides:  &types.CandidateProfile{Skills: "React", PreferredRole: "Accounts"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha Rao", res.Profile.Name)
	assert.Equal(t, "React", res.Profile.Skills)
	require.NotEmpty(t, res.Jobs)
	assert.Equal(t, "Accounts Intern", res.Jobs[0].Title)
}

func TestRecommend_ObjectiveLineKeepsRequestedRole(t *testing.T) {
	searcher := &fakeSearcher{listings: []types.RawListing{
		types.NewRawListing("indeed", "Data Analyst Intern", "Acme", "Pune", "", "", "https://x/4"),
	}}
	svc := New(searcher)

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field:      "data analyst",
		Category:   "Pune",
		ResumeText: "Asha Rao\nObjective: To secure a challenging internship in a reputed organisation\nSkills: Python, SQL\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "data analyst", res.Profile.PreferredRole)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, 20, res.Jobs[0].MatchScore)
}

func TestRecommend_NoSkillsFailsBeforeFetch(t *testing.T) {
	searcher := &fakeSearcher{listings: listings()}
	svc := New(searcher)

	_, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field:      "Web Development",
		Category:   "Bangalore",
		ResumeText: "Name: Asha Rao\nCity: Bangalore",
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.Extracted)
	assert.Equal(t, []types.ProfileField{types.FieldSkills}, vErr.Fields)
	assert.Zero(t, searcher.calls)
}

func TestRecommend_InvalidRequest(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(searcher)

	_, err := svc.Recommend(context.Background(), types.RecommendRequest{Field: "Web"})

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	assert.Zero(t, searcher.calls)
}

func TestRecommend_AllSourcesFailed(t *testing.T) {
	searcher := &fakeSearcher{report: aggregate.Report{Sources: []aggregate.SourceReport{
		{Source: "indeed", Error: "timeout"},
	}}}
	svc := New(searcher)

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
	assert.True(t, res.Report.AllFailed())
}

func TestRecommend_SearchAborted(t *testing.T) {
	searcher := &fakeSearcher{err: context.Canceled}
	svc := New(searcher)

	_, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume,
	})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRecommend_Notification(t *testing.T) {
	rec := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(rec, 0, nil)
	svc := New(&fakeSearcher{listings: listings()}, WithDispatcher(dispatcher))

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume, Phone: strPtr("9876543210"),
	})
	require.NoError(t, err)
	assert.Equal(t, NotificationQueued, res.Notification)

	dispatcher.Wait()
	assert.Contains(t, rec.sent["9876543210"], "Node.js Intern at Bangalore Labs: https://x/3")
}

func TestRecommend_NotificationWithoutMatches(t *testing.T) {
	rec := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(rec, 0, nil)
	svc := New(&fakeSearcher{}, WithDispatcher(dispatcher))

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume, Phone: strPtr("9876543210"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
	assert.Equal(t, NotificationQueued, res.Notification)

	dispatcher.Wait()
	assert.Equal(t, "Your PM Internship Recommendations:", rec.sent["9876543210"])
}

func TestRecommend_NullPhoneSkipsNotification(t *testing.T) {
	rec := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(rec, 0, nil)
	svc := New(&fakeSearcher{listings: listings()}, WithDispatcher(dispatcher))

	res, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume,
	})
	require.NoError(t, err)
	dispatcher.Wait()

	assert.Equal(t, NotificationSkipped, res.Notification)
	assert.Empty(t, rec.sent)
}

func TestRecommend_Progress(t *testing.T) {
	var steps []string
	svc := New(&fakeSearcher{listings: listings()}, WithProgress(func(e ProgressEvent) {
		steps = append(steps, e.Step)
	}))

	_, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"extract", "aggregate", "aggregate", "rank", "notify"}, steps)
}

func TestSubmitProfile(t *testing.T) {
	searcher := &fakeSearcher{listings: listings(), report: aggregate.Report{
		Total:   7,
		Sources: []aggregate.SourceReport{{Source: "indeed", Listings: 7}},
	}}
	rec := &recordingNotifier{}
	dispatcher := notify.NewDispatcher(rec, 0, nil)
	svc := New(searcher, WithDispatcher(dispatcher), WithMaxResults(1))

	res, err := svc.SubmitProfile(context.Background(), types.ProfileSubmission{
		CandidateProfile: types.CandidateProfile{
			Name:     " Asha Rao ",
			Email:    "asha@example.com",
			Phone:    "9876543210",
			Skills:   "React, Node.js",
			Location: "Bengaluru, Karnataka",
			City:     "Bangalore",
		},
		SMSNotifications: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Query{{Field: "React Node.js", Category: "Bangalore"}}, searcher.queries)
	assert.Equal(t, 7, res.JobsFound)
	assert.Equal(t, 2, res.Matching)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, "Node.js Intern", res.Jobs[0].Title)
	assert.Equal(t, searcher.report.Sources, res.Sources)
	assert.Equal(t, NotificationQueued, res.Notification)

	dispatcher.Wait()
	assert.Equal(t,
		"Hello Asha Rao! We found 7 internship opportunities for you.\n\n1. Node.js Intern at Bangalore Labs\n\nCheck your email for more details!",
		rec.sent["9876543210"])
}

func TestSubmitProfile_PreferredRoleDrivesQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(searcher)

	res, err := svc.SubmitProfile(context.Background(), types.ProfileSubmission{
		CandidateProfile: types.CandidateProfile{
			Name: "Asha", Email: "a@b.co", Skills: "Go", Location: "Pune", PreferredRole: "Backend",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Query{{Field: "Backend", Category: "Pune"}}, searcher.queries)
	assert.Equal(t, NotificationSkipped, res.Notification)
	assert.Empty(t, res.Jobs)
}

func TestSubmitProfile_MissingFields(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(searcher)

	_, err := svc.SubmitProfile(context.Background(), types.ProfileSubmission{
		CandidateProfile: types.CandidateProfile{Name: "Asha", Skills: " , "},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.False(t, vErr.Extracted)
	assert.Equal(t, []types.ProfileField{types.FieldEmail, types.FieldSkills, types.FieldLocation}, vErr.Fields)
	assert.Equal(t, "missing required fields: email, techStacks, location", err.Error())
	assert.Zero(t, searcher.calls)
}

func TestRecommend_SourceLimit(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := New(searcher, WithSourceLimit(5))

	_, err := svc.Recommend(context.Background(), types.RecommendRequest{
		Field: "Web", Category: "Bangalore", ResumeText: resume,
	})
	require.NoError(t, err)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, 5, searcher.queries[0].Limit)
}

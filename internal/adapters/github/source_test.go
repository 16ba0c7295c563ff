package github

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/services/contrib/domain"
)

// fakeTransport dispatches on the query document text; per-query responses
// are served in order and individual calls can be made to fail
type fakeTransport struct {
	responses map[string][]string // query -> raw data objects, served in order
	served    map[string]int
	fail      map[string]error         // fails every call for the query
	failAt    map[string]map[int]error // fails the nth call for the query
	calls     []map[string]any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: map[string][]string{},
		served:    map[string]int{},
		fail:      map[string]error{},
		failAt:    map[string]map[int]error{},
	}
}

func (f *fakeTransport) Execute(_ context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	f.calls = append(f.calls, variables)
	i := f.served[query]
	f.served[query]++
	if err, ok := f.fail[query]; ok {
		return nil, err
	}
	if err, ok := f.failAt[query][i]; ok {
		return nil, err
	}
	batch, ok := f.responses[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query")
	}
	if i >= len(batch) {
		i = len(batch) - 1
	}
	return json.RawMessage(batch[i]), nil
}

const contributionsFixture = `{
	"user": {
		"contributionsCollection": {
			"totalCommitContributions": 120,
			"totalIssueContributions": 8,
			"totalPullRequestContributions": 30,
			"totalPullRequestReviewContributions": 14,
			"totalRepositoriesWithContributedCommits": 5,
			"totalRepositoriesWithContributedPullRequests": 3,
			"totalRepositoriesWithContributedIssues": 2,
			"restrictedContributionsCount": 40,
			"commitContributionsByRepository": [
				{"repository": {"name": "svc", "primaryLanguage": {"name": "Go"}}, "contributions": {"totalCount": 80}},
				{"repository": {"name": "bot", "primaryLanguage": {"name": "Python"}}, "contributions": {"totalCount": 30}},
				{"repository": {"name": "infra", "primaryLanguage": null}, "contributions": {"totalCount": 10}},
				{"repository": {"name": "cli", "primaryLanguage": {"name": "Go"}}, "contributions": {"totalCount": 10}}
			]
		},
		"repositories": {"totalCount": 25},
		"starredRepositories": {"totalCount": 200},
		"followers": {"totalCount": 55},
		"following": {"totalCount": 30},
		"issues": {"totalCount": 60},
		"repositoryDiscussions": {"totalCount": 7}
	}
}`

func TestFetchSnapshot(t *testing.T) {
	ft := newFakeTransport()
	ft.responses[contributionsQuery] = []string{contributionsFixture}

	s := NewSource(ft, nil)
	snap, err := s.FetchSnapshot(context.Background(), "octocat", domain.CalendarYear(2024))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Username != "octocat" || snap.Year != 2024 {
		t.Fatalf("bad identity: %+v", snap)
	}
	if snap.TotalCommits != 120 || snap.TotalPRs != 30 || snap.TotalIssues != 8 {
		t.Fatalf("bad totals: %+v", snap)
	}
	if snap.TotalDiscussions != 7 || snap.TotalReviews != 14 {
		t.Fatalf("bad discussion/review totals: %+v", snap)
	}
	// sum of the three per-category repo counts
	if snap.RepositoriesContributed != 10 {
		t.Fatalf("expected 10 repositories contributed, got %d", snap.RepositoriesContributed)
	}
	// two Go repos merge, the nil-language repo is skipped
	if snap.Languages["Go"] != 90 || snap.Languages["Python"] != 30 || len(snap.Languages) != 2 {
		t.Fatalf("bad languages: %v", snap.Languages)
	}
	if snap.StarredRepos != 200 || snap.Followers != 55 || snap.Following != 30 || snap.PublicRepos != 25 {
		t.Fatalf("bad account state: %+v", snap)
	}
	if snap.PrivateContributions != 40 {
		t.Fatalf("bad private contributions: %d", snap.PrivateContributions)
	}
	if snap.LinesAdded != 0 || snap.LinesDeleted != 0 || snap.LinesMethod != domain.MethodNone {
		t.Fatalf("lines must stay untouched by the source: %+v", snap)
	}

	// period bounds travel as RFC3339
	if got := ft.calls[0]["from"]; got != "2024-01-01T00:00:00Z" {
		t.Fatalf("bad from variable: %v", got)
	}
	if got := ft.calls[0]["to"]; got != "2024-12-31T23:59:59Z" {
		t.Fatalf("bad to variable: %v", got)
	}
}

func TestFetchSnapshotMissingUser(t *testing.T) {
	ft := newFakeTransport()
	ft.responses[contributionsQuery] = []string{`{"user": null}`}

	_, err := NewSource(ft, nil).FetchSnapshot(context.Background(), "ghost", domain.CalendarYear(2024))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("expected json error for missing user, got %v", err)
	}
}

func TestFetchSnapshotTransportFailure(t *testing.T) {
	ft := newFakeTransport()
	ft.fail[contributionsQuery] = perr.Unavailablef("down")

	_, err := NewSource(ft, nil).FetchSnapshot(context.Background(), "octocat", domain.CalendarYear(2024))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

// Package domain holds the contribution reporting domain model
package domain

import (
	"fmt"
	"time"

	perr "ghsummary/internal/platform/errors"
)

// Line calculation method tags recorded on a LineDelta
const (
	MethodPullRequests = "pull_requests"
	MethodCommits      = "commits"
	MethodNone         = "none"
	MethodError        = "error"
)

// EarliestYear is the first year GitHub can hold contribution data for
const EarliestYear = 2008

type periodKind uint8

const (
	periodRange periodKind = iota
	periodYear
	periodRolling
)

// Period is a closed [Start, End] reporting window in UTC
// construct via CalendarYear, LastTwelveMonths, or PeriodBetween so the
// end >= start invariant always holds
type Period struct {
	Start time.Time
	End   time.Time

	kind periodKind
	year int
}

// CalendarYear returns the period covering a full calendar year
func CalendarYear(year int) Period {
	return Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
		kind:  periodYear,
		year:  year,
	}
}

// LastTwelveMonths returns the rolling period ending at now
func LastTwelveMonths(now time.Time) Period {
	now = now.UTC()
	return Period{
		Start: now.AddDate(-1, 0, 0),
		End:   now,
		kind:  periodRolling,
	}
}

// PeriodBetween returns an explicit range period or an invalid argument error
// when end precedes start
func PeriodBetween(start, end time.Time) (Period, error) {
	start = start.UTC()
	end = end.UTC()
	if end.Before(start) {
		return Period{}, perr.InvalidArgf("period end %s precedes start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return Period{Start: start, End: end, kind: periodRange}, nil
}

// FromISO returns the inclusive lower bound as an RFC3339 UTC string
func (p Period) FromISO() string { return p.Start.UTC().Format(time.RFC3339) }

// ToISO returns the inclusive upper bound as an RFC3339 UTC string
func (p Period) ToISO() string { return p.End.UTC().Format(time.RFC3339) }

// Year reports the calendar year and true when the period is a whole year
func (p Period) Year() (int, bool) {
	if p.kind == periodYear {
		return p.year, true
	}
	return 0, false
}

// YearKey is the year a snapshot for this period is stored under
// calendar years use their own year, other periods key on the start year
func (p Period) YearKey() int {
	if y, ok := p.Year(); ok {
		return y
	}
	return p.Start.Year()
}

// Contains reports whether t falls inside the closed period bounds
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start) && !t.After(p.End)
}

// Description renders the period for humans
func (p Period) Description() string {
	switch p.kind {
	case periodYear:
		return fmt.Sprintf("%d", p.year)
	case periodRolling:
		return "Last 12 months"
	default:
		return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
	}
}

// Snapshot is the complete per user, per period contribution record
// unique per (username, year); immutable once built
type Snapshot struct {
	ID                      string         `json:"id,omitempty"`
	Username                string         `json:"username"`
	Year                    int            `json:"year"`
	TotalCommits            int            `json:"total_commits"`
	TotalPRs                int            `json:"total_prs"`
	TotalIssues             int            `json:"total_issues"`
	TotalDiscussions        int            `json:"total_discussions"`
	TotalReviews            int            `json:"total_reviews"`
	RepositoriesContributed int            `json:"repositories_contributed"`
	Languages               map[string]int `json:"languages"`
	StarredRepos            int            `json:"starred_repos"`
	Followers               int            `json:"followers"`
	Following               int            `json:"following"`
	PublicRepos             int            `json:"public_repos"`
	PrivateContributions    int            `json:"private_contributions"`
	LinesAdded              int            `json:"lines_added"`
	LinesDeleted            int            `json:"lines_deleted"`
	LinesMethod             string         `json:"lines_calculation_method"`
	CreatedAt               time.Time      `json:"created_at"`
}

// LineDelta is the outcome of one line counting run
// transient, folded into a Snapshot and never persisted on its own
type LineDelta struct {
	LinesAdded   int    `json:"lines_added"`
	LinesDeleted int    `json:"lines_deleted"`
	Method       string `json:"method"`
	ItemCount    int    `json:"item_count"`
}

// PullRequestRecord is a merged PR row fetched for line calculation
type PullRequestRecord struct {
	CreatedAt  time.Time
	MergedAt   *time.Time
	Additions  int
	Deletions  int
	OwnerLogin string
}

// InPeriod reports whether the PR counts toward p
// a PR qualifies through either its creation date or its merge date, so one
// created late in a year and merged early in the next shows up in both years
func (r PullRequestRecord) InPeriod(p Period) bool {
	if p.Contains(r.CreatedAt) {
		return true
	}
	return r.MergedAt != nil && p.Contains(*r.MergedAt)
}

// CommitRecord is one commit row from a repository history walk
type CommitRecord struct {
	ID            string
	CommittedDate time.Time
	Additions     int
	Deletions     int
	AuthorLogin   string
}

// RepoRef identifies a repository that received commit contributions in a period
type RepoRef struct {
	Owner string
	Name  string
}

// String renders owner/name
func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// AllTimeAggregate folds every known yearly snapshot for a user into one view
// flow metrics are cumulative sums; account-state fields carry the most recent
// year's values since summing them across years would be meaningless
type AllTimeAggregate struct {
	Username                string         `json:"username"`
	TotalYears              int            `json:"total_years"`
	TotalCommits            int            `json:"total_commits"`
	TotalPRs                int            `json:"total_prs"`
	TotalIssues             int            `json:"total_issues"`
	TotalDiscussions        int            `json:"total_discussions"`
	TotalReviews            int            `json:"total_reviews"`
	PrivateContributions    int            `json:"private_contributions"`
	LinesAdded              int            `json:"lines_added"`
	LinesDeleted            int            `json:"lines_deleted"`
	RepositoriesContributed int            `json:"repositories_contributed"`
	StarredRepos            int            `json:"starred_repos"`
	Followers               int            `json:"followers"`
	Following               int            `json:"following"`
	PublicRepos             int            `json:"public_repos"`
	FirstYear               int            `json:"first_year"`
	LastYear                int            `json:"last_year"`
	Languages               map[string]int `json:"languages"`
	LastUpdated             time.Time      `json:"last_updated"`
}

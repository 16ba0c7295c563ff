package domain_test

import (
	"testing"
	"time"

	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/services/contrib/domain"
)

func TestCalendarYearBounds(t *testing.T) {
	p := domain.CalendarYear(2024)
	if p.FromISO() != "2024-01-01T00:00:00Z" {
		t.Fatalf("bad from: %s", p.FromISO())
	}
	if p.ToISO() != "2024-12-31T23:59:59Z" {
		t.Fatalf("bad to: %s", p.ToISO())
	}
	if y, ok := p.Year(); !ok || y != 2024 {
		t.Fatalf("expected whole year 2024, got %d ok=%v", y, ok)
	}
	if p.YearKey() != 2024 {
		t.Fatalf("bad year key: %d", p.YearKey())
	}
	if p.Description() != "2024" {
		t.Fatalf("bad description: %s", p.Description())
	}
}

func TestPeriodContainsInclusiveBounds(t *testing.T) {
	p := domain.CalendarYear(2024)
	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		if got := p.Contains(tc.at); got != tc.want {
			t.Fatalf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestPeriodBetweenRejectsInvertedRange(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := domain.PeriodBetween(start, start.Add(-time.Hour))
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	p, err := domain.PeriodBetween(start, start)
	if err != nil {
		t.Fatalf("equal bounds are a valid single-instant period: %v", err)
	}
	if !p.Contains(start) {
		t.Fatalf("single-instant period must contain its bound")
	}
}

func TestLastTwelveMonths(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	p := domain.LastTwelveMonths(now)
	if p.End != now {
		t.Fatalf("bad end: %v", p.End)
	}
	if p.Start != now.AddDate(-1, 0, 0) {
		t.Fatalf("bad start: %v", p.Start)
	}
	if _, ok := p.Year(); ok {
		t.Fatalf("rolling period must not report a whole year")
	}
	if p.Description() != "Last 12 months" {
		t.Fatalf("bad description: %s", p.Description())
	}
	if p.YearKey() != 2023 {
		t.Fatalf("rolling period keys on its start year, got %d", p.YearKey())
	}
}

func TestPullRequestInPeriodDualBoundary(t *testing.T) {
	p := domain.CalendarYear(2024)
	merged := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	// created outside, merged inside
	pr := domain.PullRequestRecord{
		CreatedAt: time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC),
		MergedAt:  &merged,
	}
	if !pr.InPeriod(p) {
		t.Fatalf("PR merged inside the period must qualify")
	}

	// it also qualifies for the creation year, counted in both
	if !pr.InPeriod(domain.CalendarYear(2023)) {
		t.Fatalf("PR created inside the period must qualify")
	}

	// created and merged fully outside
	outside := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)
	pr = domain.PullRequestRecord{
		CreatedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		MergedAt:  &outside,
	}
	if pr.InPeriod(p) {
		t.Fatalf("PR fully outside the period must not qualify")
	}

	// merged-state PR with no merge timestamp falls back to creation only
	pr = domain.PullRequestRecord{CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	if !pr.InPeriod(p) {
		t.Fatalf("nil merge date must not disqualify a PR created inside")
	}
}

func TestRepoRefString(t *testing.T) {
	r := domain.RepoRef{Owner: "octocat", Name: "hello-world"}
	if r.String() != "octocat/hello-world" {
		t.Fatalf("bad repo ref: %s", r.String())
	}
}

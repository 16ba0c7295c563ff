package service_test

import (
	"testing"
	"time"

	"ghsummary/internal/services/contrib/domain"
	"ghsummary/internal/services/contrib/service"
)

func TestAggregateYearsEmpty(t *testing.T) {
	if got := service.AggregateYears(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}

func TestAggregateYears(t *testing.T) {
	t2022 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	t2024 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	snaps := []domain.Snapshot{
		{
			Username: "octocat", Year: 2022,
			TotalCommits: 100, TotalPRs: 10, TotalIssues: 5,
			RepositoriesContributed: 8,
			StarredRepos:            50, Followers: 10, Following: 5, PublicRepos: 12,
			LinesAdded: 1000, LinesDeleted: 200,
			Languages: map[string]int{"Python": 100},
			CreatedAt: t2022,
		},
		{
			Username: "octocat", Year: 2023,
			TotalCommits: 150, TotalPRs: 20, TotalIssues: 3,
			RepositoriesContributed: 23,
			Languages:               map[string]int{"Python": 50, "Go": 10},
		},
		{
			Username: "octocat", Year: 2024,
			TotalCommits: 200, TotalPRs: 30, TotalIssues: 7,
			RepositoriesContributed: 10,
			StarredRepos:            80, Followers: 25, Following: 9, PublicRepos: 20,
			LinesAdded: 3000, LinesDeleted: 500,
			Languages: map[string]int{"Go": 20},
			CreatedAt: t2024,
		},
	}

	agg := service.AggregateYears(snaps)
	if agg == nil {
		t.Fatalf("expected aggregate")
	}

	// flow metrics sum across years
	if agg.TotalCommits != 450 {
		t.Fatalf("expected 450 commits, got %d", agg.TotalCommits)
	}
	if agg.TotalPRs != 60 || agg.TotalIssues != 15 {
		t.Fatalf("bad sums: %+v", agg)
	}
	if agg.LinesAdded != 4000 || agg.LinesDeleted != 700 {
		t.Fatalf("bad line sums: %+v", agg)
	}

	// account-state fields come from the latest year, never summed
	if agg.RepositoriesContributed != 10 {
		t.Fatalf("expected latest-year repos (10), got %d", agg.RepositoriesContributed)
	}
	if agg.StarredRepos != 80 || agg.Followers != 25 || agg.Following != 9 || agg.PublicRepos != 20 {
		t.Fatalf("bad account state: %+v", agg)
	}

	if agg.FirstYear != 2022 || agg.LastYear != 2024 || agg.TotalYears != 3 {
		t.Fatalf("bad year span: %+v", agg)
	}

	// language histograms merge by key
	if agg.Languages["Python"] != 150 || agg.Languages["Go"] != 30 {
		t.Fatalf("bad language merge: %v", agg.Languages)
	}

	if agg.LastUpdated != t2024 {
		t.Fatalf("expected newest created_at, got %v", agg.LastUpdated)
	}
	if agg.Username != "octocat" {
		t.Fatalf("bad username: %s", agg.Username)
	}
}

func TestAggregateYearsUnorderedInput(t *testing.T) {
	snaps := []domain.Snapshot{
		{Username: "u", Year: 2024, RepositoriesContributed: 7},
		{Username: "u", Year: 2020, RepositoriesContributed: 3},
		{Username: "u", Year: 2022, RepositoriesContributed: 5},
	}
	agg := service.AggregateYears(snaps)
	if agg.FirstYear != 2020 || agg.LastYear != 2024 {
		t.Fatalf("bad span on unordered input: %+v", agg)
	}
	if agg.RepositoriesContributed != 7 {
		t.Fatalf("latest-year selection must not depend on order, got %d", agg.RepositoriesContributed)
	}
}

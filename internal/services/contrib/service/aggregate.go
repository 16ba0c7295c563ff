package service

import (
	"ghsummary/internal/services/contrib/domain"
)

// AggregateYears folds yearly snapshots into one all-time view
// flow metrics sum across every snapshot, account-state fields come from
// the snapshot with the highest year, language histograms merge by key
// returns nil for an empty input
func AggregateYears(snaps []domain.Snapshot) *domain.AllTimeAggregate {
	if len(snaps) == 0 {
		return nil
	}

	agg := &domain.AllTimeAggregate{
		Username:   snaps[0].Username,
		TotalYears: len(snaps),
		FirstYear:  snaps[0].Year,
		LastYear:   snaps[0].Year,
		Languages:  map[string]int{},
	}

	latest := snaps[0]
	for _, s := range snaps {
		agg.TotalCommits += s.TotalCommits
		agg.TotalPRs += s.TotalPRs
		agg.TotalIssues += s.TotalIssues
		agg.TotalDiscussions += s.TotalDiscussions
		agg.TotalReviews += s.TotalReviews
		agg.PrivateContributions += s.PrivateContributions
		agg.LinesAdded += s.LinesAdded
		agg.LinesDeleted += s.LinesDeleted

		if s.Year < agg.FirstYear {
			agg.FirstYear = s.Year
		}
		if s.Year > agg.LastYear {
			agg.LastYear = s.Year
		}
		if s.Year >= latest.Year {
			latest = s
		}
		for lang, count := range s.Languages {
			agg.Languages[lang] += count
		}
		if s.CreatedAt.After(agg.LastUpdated) {
			agg.LastUpdated = s.CreatedAt
		}
	}

	// account-state fields reflect the most recent year, not a sum
	agg.RepositoriesContributed = latest.RepositoriesContributed
	agg.StarredRepos = latest.StarredRepos
	agg.Followers = latest.Followers
	agg.Following = latest.Following
	agg.PublicRepos = latest.PublicRepos

	return agg
}

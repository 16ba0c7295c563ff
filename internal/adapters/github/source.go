package github

import (
	"context"
	"time"

	"ghsummary/internal/platform/logger"
	"ghsummary/internal/services/contrib/domain"
)

// Source fetches the aggregate year snapshot for a user
// implements domain.SourcePort; line counts stay zero until the line
// calculator fills them in
type Source struct {
	t        Transport
	log      logger.Logger
	progress domain.ProgressPort
	now      func() time.Time
}

// NewSource creates a Source over the given transport
// progress may be nil
func NewSource(t Transport, progress domain.ProgressPort) *Source {
	return &Source{
		t:        t,
		log:      *logger.Named("github.source"),
		progress: progress,
		now:      time.Now,
	}
}

func (s *Source) report(ctx context.Context, msg string) {
	if s.progress != nil {
		s.progress.Report(ctx, msg)
	}
}

// FetchSnapshot issues the single aggregate contributions query for the
// period and derives the language histogram and repository totals
// any transport or parse failure fails the whole period, no partial
// snapshot is returned
func (s *Source) FetchSnapshot(ctx context.Context, username string, p domain.Period) (domain.Snapshot, error) {
	s.report(ctx, "Fetching contribution statistics...")

	raw, err := s.t.Execute(ctx, contributionsQuery, map[string]any{
		"login": username,
		"from":  p.FromISO(),
		"to":    p.ToISO(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Str("period", p.Description()).
			Msg("contributions fetch failed")
		return domain.Snapshot{}, err
	}

	var data contributionsData
	if err := decodeData(raw, &data); err != nil {
		return domain.Snapshot{}, err
	}
	if err := data.validate(); err != nil {
		return domain.Snapshot{}, err
	}

	s.report(ctx, "Processing contribution data...")

	user := data.User
	contrib := user.ContributionsCollection

	// languages: sum contribution counts by primary language name,
	// skipping repositories with no primary language
	languages := map[string]int{}
	for _, rc := range contrib.CommitContributionsByRepository {
		if rc.Repository == nil || rc.Repository.PrimaryLanguage == nil || rc.Contributions == nil {
			continue
		}
		languages[rc.Repository.PrimaryLanguage.Name] += rc.Contributions.TotalCount
	}

	// sum of the three category counts; a repo active in more than one
	// category is counted once per category, making this an upper bound
	reposContributed := contrib.TotalRepositoriesWithContributedCommits +
		contrib.TotalRepositoriesWithContributedPullRequests +
		contrib.TotalRepositoriesWithContributedIssues

	return domain.Snapshot{
		Username:                username,
		Year:                    p.YearKey(),
		TotalCommits:            contrib.TotalCommitContributions,
		TotalPRs:                contrib.TotalPullRequestContributions,
		TotalIssues:             contrib.TotalIssueContributions,
		TotalDiscussions:        user.RepositoryDiscussions.TotalCount,
		TotalReviews:            contrib.TotalPullRequestReviewContributions,
		RepositoriesContributed: reposContributed,
		Languages:               languages,
		StarredRepos:            user.StarredRepositories.TotalCount,
		Followers:               user.Followers.TotalCount,
		Following:               user.Following.TotalCount,
		PublicRepos:             user.Repositories.TotalCount,
		PrivateContributions:    contrib.RestrictedContributionsCount,
		LinesMethod:             domain.MethodNone,
		CreatedAt:               s.now().UTC(),
	}, nil
}

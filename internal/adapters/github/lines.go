package github

import (
	"context"
	"fmt"
	"strings"

	"ghsummary/internal/platform/logger"
	"ghsummary/internal/services/contrib/domain"
)

// PageSizer lets the calculator pick up paging config from its transport
type PageSizer interface {
	PageSize() int
	MaxPages() int
}

// LineCalculator computes the lines added/deleted delta for a period
// implements domain.LinesPort with an ordered strategy list: merged pull
// requests first, then a per repository commit history walk
type LineCalculator struct {
	t        Transport
	log      logger.Logger
	progress domain.ProgressPort
	pageSize int
	maxPages int
}

// NewLineCalculator creates a calculator over the given transport
// paging config is taken from the transport when it exposes PageSizer
func NewLineCalculator(t Transport, progress domain.ProgressPort) *LineCalculator {
	c := &LineCalculator{
		t:        t,
		log:      *logger.Named("github.lines"),
		progress: progress,
		pageSize: defaultPageSize,
	}
	if ps, ok := t.(PageSizer); ok {
		if n := ps.PageSize(); n > 0 {
			c.pageSize = n
		}
		c.maxPages = ps.MaxPages()
	}
	return c
}

func (c *LineCalculator) report(ctx context.Context, msg string) {
	if c.progress != nil {
		c.progress.Report(ctx, msg)
	}
}

// strategy is one named way to produce a LineDelta
type strategy struct {
	name string
	run  func(ctx context.Context, username string, p domain.Period) (domain.LineDelta, error)
}

// Calculate walks the strategy list in order and accepts the first result
// that is neither empty nor an error. A strategy failure falls through to
// the next one; if every strategy fails the delta degrades to zero values
// tagged MethodError instead of surfacing an error
func (c *LineCalculator) Calculate(ctx context.Context, username string, p domain.Period) (domain.LineDelta, error) {
	strategies := []strategy{
		{name: domain.MethodPullRequests, run: c.fromPullRequests},
		{name: domain.MethodCommits, run: c.fromCommits},
	}

	last := len(strategies) - 1
	for i, st := range strategies {
		d, err := st.run(ctx, username, p)
		if err != nil {
			if ctx.Err() != nil {
				return domain.LineDelta{Method: domain.MethodError}, ctx.Err()
			}
			c.log.Warn().Err(err).Str("strategy", st.name).Str("username", username).
				Msg("line strategy failed")
			continue
		}
		if d.ItemCount == 0 && i < last {
			c.report(ctx, fmt.Sprintf("No results from %s, falling back to %s...", st.name, strategies[i+1].name))
			continue
		}
		return d, nil
	}

	return domain.LineDelta{Method: domain.MethodError}, nil
}

// fromPullRequests pages through the user's merged pull requests and sums
// additions/deletions for those created or merged inside the period
// a PR qualifies through either boundary, see domain.PullRequestRecord
func (c *LineCalculator) fromPullRequests(ctx context.Context, username string, p domain.Period) (domain.LineDelta, error) {
	c.report(ctx, "Fetching pull request data...")

	delta := domain.LineDelta{Method: domain.MethodPullRequests}

	fetch := func(ctx context.Context, cursor *string) (Page[domain.PullRequestRecord], error) {
		raw, err := c.t.Execute(ctx, pullRequestsQuery, map[string]any{
			"login":    username,
			"pageSize": c.pageSize,
			"cursor":   cursorVar(cursor),
		})
		if err != nil {
			return Page[domain.PullRequestRecord]{}, err
		}
		var data pullRequestsData
		if err := decodeData(raw, &data); err != nil {
			return Page[domain.PullRequestRecord]{}, err
		}
		if err := data.validate(); err != nil {
			return Page[domain.PullRequestRecord]{}, err
		}

		prs := data.User.PullRequests
		items := make([]domain.PullRequestRecord, 0, len(prs.Nodes))
		for _, n := range prs.Nodes {
			rec := domain.PullRequestRecord{
				CreatedAt: n.CreatedAt,
				MergedAt:  n.MergedAt,
				Additions: intOrZero(n.Additions),
				Deletions: intOrZero(n.Deletions),
			}
			if n.BaseRepository != nil && n.BaseRepository.Owner != nil {
				rec.OwnerLogin = n.BaseRepository.Owner.Login
			}
			items = append(items, rec)
		}
		return Page[domain.PullRequestRecord]{
			Items:     items,
			HasNext:   prs.PageInfo.HasNextPage,
			EndCursor: prs.PageInfo.EndCursor,
		}, nil
	}

	err := ForEachPage(ctx, c.maxPages, fetch, func(items []domain.PullRequestRecord) error {
		for _, pr := range items {
			if !pr.InPeriod(p) {
				continue
			}
			delta.LinesAdded += pr.Additions
			delta.LinesDeleted += pr.Deletions
			delta.ItemCount++
		}
		if delta.ItemCount > 0 && delta.ItemCount%100 == 0 {
			c.report(ctx, fmt.Sprintf("Processed %d pull requests...", delta.ItemCount))
		}
		return nil
	})
	if err != nil {
		return domain.LineDelta{}, err
	}
	return delta, nil
}

// fromCommits resolves the user's contributed repositories for the period
// and walks each default branch history filtered by author identity
// a single repository's failure is logged and skipped, the sum continues
// with the remaining repositories
func (c *LineCalculator) fromCommits(ctx context.Context, username string, p domain.Period) (domain.LineDelta, error) {
	c.report(ctx, "Calculating lines from commits...")

	authorID, repos, err := c.contributedRepos(ctx, username, p)
	if err != nil {
		return domain.LineDelta{}, err
	}

	delta := domain.LineDelta{Method: domain.MethodCommits}
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return domain.LineDelta{}, err
		}
		commits, err := c.repoCommits(ctx, repo, authorID, p)
		if err != nil {
			c.log.Warn().Err(err).Str("repo", repo.String()).Msg("commit history fetch failed, skipping repository")
			c.report(ctx, fmt.Sprintf("Skipping %s (history unavailable)", repo.String()))
			continue
		}
		for _, cm := range commits {
			// history is already filtered by author id; the login check
			// guards against id drift on renamed accounts
			if cm.AuthorLogin != "" && !strings.EqualFold(cm.AuthorLogin, username) {
				continue
			}
			delta.LinesAdded += cm.Additions
			delta.LinesDeleted += cm.Deletions
			delta.ItemCount++
		}
	}
	return delta, nil
}

// contributedRepos returns the user's node id and the repositories with
// commit contributions in the period
func (c *LineCalculator) contributedRepos(ctx context.Context, username string, p domain.Period) (string, []domain.RepoRef, error) {
	raw, err := c.t.Execute(ctx, repoActivityQuery, map[string]any{
		"login": username,
		"from":  p.FromISO(),
		"to":    p.ToISO(),
	})
	if err != nil {
		return "", nil, err
	}
	var data repoActivityData
	if err := decodeData(raw, &data); err != nil {
		return "", nil, err
	}
	if err := data.validate(); err != nil {
		return "", nil, err
	}

	var repos []domain.RepoRef
	for _, rc := range data.User.ContributionsCollection.CommitContributionsByRepository {
		if rc.Repository == nil || rc.Repository.Owner == nil {
			continue
		}
		repos = append(repos, domain.RepoRef{
			Owner: rc.Repository.Owner.Login,
			Name:  rc.Repository.Name,
		})
	}
	return data.User.ID, repos, nil
}

// repoCommits pages through one repository's default branch history
func (c *LineCalculator) repoCommits(ctx context.Context, repo domain.RepoRef, authorID string, p domain.Period) ([]domain.CommitRecord, error) {
	fetch := func(ctx context.Context, cursor *string) (Page[domain.CommitRecord], error) {
		raw, err := c.t.Execute(ctx, commitHistoryQuery, map[string]any{
			"owner":    repo.Owner,
			"repo":     repo.Name,
			"authorId": authorID,
			"since":    p.FromISO(),
			"until":    p.ToISO(),
			"pageSize": c.pageSize,
			"cursor":   cursorVar(cursor),
		})
		if err != nil {
			return Page[domain.CommitRecord]{}, err
		}
		var data commitHistoryData
		if err := decodeData(raw, &data); err != nil {
			return Page[domain.CommitRecord]{}, err
		}
		if data.empty() {
			// repository gone or no HEAD commit, nothing to walk
			return Page[domain.CommitRecord]{}, nil
		}

		hist := data.Repository.Object.History
		items := make([]domain.CommitRecord, 0, len(hist.Nodes))
		for _, n := range hist.Nodes {
			rec := domain.CommitRecord{
				ID:            n.OID,
				CommittedDate: n.CommittedDate,
				Additions:     intOrZero(n.Additions),
				Deletions:     intOrZero(n.Deletions),
			}
			if n.Author != nil && n.Author.User != nil {
				rec.AuthorLogin = n.Author.User.Login
			}
			items = append(items, rec)
		}
		return Page[domain.CommitRecord]{
			Items:     items,
			HasNext:   hist.PageInfo.HasNextPage,
			EndCursor: hist.PageInfo.EndCursor,
		}, nil
	}

	return CollectPages(ctx, c.maxPages, fetch)
}

// cursorVar maps a nil cursor to JSON null for the first page
func cursorVar(cursor *string) any {
	if cursor == nil {
		return nil
	}
	return *cursor
}

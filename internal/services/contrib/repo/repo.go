// Package repo provides the contribution report repository implementation
package repo

import (
	"context"
	"encoding/json"

	"ghsummary/internal/modkit/repokit"
	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/platform/store"
	"ghsummary/internal/services/contrib/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the contribution report repository
// it covers domain.StoragePort plus the bulk reads the aggregator needs
type Storage interface {
	domain.StoragePort
	Snapshots(ctx context.Context, username string) ([]domain.Snapshot, error)
}

// EnsureSchema creates the reports table when it does not exist yet
// called once at boot, matches the upsert and scan column order below
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS contribution_reports (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		year INTEGER NOT NULL,
		total_commits INTEGER DEFAULT 0,
		total_prs INTEGER DEFAULT 0,
		total_issues INTEGER DEFAULT 0,
		total_discussions INTEGER DEFAULT 0,
		total_reviews INTEGER DEFAULT 0,
		repositories_contributed INTEGER DEFAULT 0,
		languages JSONB DEFAULT '{}',
		starred_repos INTEGER DEFAULT 0,
		followers INTEGER DEFAULT 0,
		following INTEGER DEFAULT 0,
		public_repos INTEGER DEFAULT 0,
		private_contributions INTEGER DEFAULT 0,
		lines_added INTEGER DEFAULT 0,
		lines_deleted INTEGER DEFAULT 0,
		lines_calculation_method VARCHAR(32) DEFAULT 'none',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(username, year)
	)`
	_, err := q.Exec(ctx, ddl)
	return perr.FromPostgres(err, "ensure contribution_reports schema")
}

const upsertSQL = `
INSERT INTO contribution_reports (
	username, year, total_commits, total_prs, total_issues,
	total_discussions, total_reviews, repositories_contributed,
	languages, starred_repos, followers, following, public_repos,
	private_contributions, lines_added, lines_deleted, lines_calculation_method
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
ON CONFLICT (username, year) DO UPDATE SET
	total_commits = EXCLUDED.total_commits,
	total_prs = EXCLUDED.total_prs,
	total_issues = EXCLUDED.total_issues,
	total_discussions = EXCLUDED.total_discussions,
	total_reviews = EXCLUDED.total_reviews,
	repositories_contributed = EXCLUDED.repositories_contributed,
	languages = EXCLUDED.languages,
	starred_repos = EXCLUDED.starred_repos,
	followers = EXCLUDED.followers,
	following = EXCLUDED.following,
	public_repos = EXCLUDED.public_repos,
	private_contributions = EXCLUDED.private_contributions,
	lines_added = EXCLUDED.lines_added,
	lines_deleted = EXCLUDED.lines_deleted,
	lines_calculation_method = EXCLUDED.lines_calculation_method,
	created_at = CURRENT_TIMESTAMP
RETURNING id::text`

// Store upserts one snapshot keyed on (username, year) and returns its id
func (s *pg) Store(ctx context.Context, snap domain.Snapshot) (string, error) {
	langs, err := json.Marshal(snap.Languages)
	if err != nil {
		return "", perr.JSONErrf("marshal languages: %v", err)
	}
	id, err := store.Scalar[string](ctx, s.q, upsertSQL,
		snap.Username, snap.Year, snap.TotalCommits, snap.TotalPRs, snap.TotalIssues,
		snap.TotalDiscussions, snap.TotalReviews, snap.RepositoriesContributed,
		langs, snap.StarredRepos, snap.Followers, snap.Following, snap.PublicRepos,
		snap.PrivateContributions, snap.LinesAdded, snap.LinesDeleted, snap.LinesMethod,
	)
	if err != nil {
		return "", perr.FromPostgres(err, "store contribution report")
	}
	return id, nil
}

const selectCols = `
	id::text, username, year, total_commits, total_prs, total_issues,
	total_discussions, total_reviews, repositories_contributed,
	languages, starred_repos, followers, following, public_repos,
	private_contributions, lines_added, lines_deleted,
	lines_calculation_method, created_at`

func scanSnapshot(r repokit.Row) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var langs []byte
	err := r.Scan(
		&snap.ID, &snap.Username, &snap.Year, &snap.TotalCommits, &snap.TotalPRs,
		&snap.TotalIssues, &snap.TotalDiscussions, &snap.TotalReviews,
		&snap.RepositoriesContributed, &langs, &snap.StarredRepos, &snap.Followers,
		&snap.Following, &snap.PublicRepos, &snap.PrivateContributions,
		&snap.LinesAdded, &snap.LinesDeleted, &snap.LinesMethod, &snap.CreatedAt,
	)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.Languages = map[string]int{}
	if len(langs) > 0 {
		if err := json.Unmarshal(langs, &snap.Languages); err != nil {
			return domain.Snapshot{}, perr.JSONErrf("unmarshal languages: %v", err)
		}
	}
	return snap, nil
}

// Retrieve returns the stored snapshot for one year, ErrNotFound when absent
func (s *pg) Retrieve(ctx context.Context, username string, year int) (domain.Snapshot, error) {
	snap, err := store.One(ctx, s.q, scanSnapshot,
		`SELECT `+selectCols+` FROM contribution_reports WHERE username = $1 AND year = $2`,
		username, year,
	)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Snapshot{}, err
		}
		return domain.Snapshot{}, perr.FromPostgres(err, "retrieve contribution report")
	}
	return snap, nil
}

// Snapshots returns every stored snapshot for a user ordered by year
func (s *pg) Snapshots(ctx context.Context, username string) ([]domain.Snapshot, error) {
	out, err := store.Many(ctx, s.q, scanSnapshot,
		`SELECT `+selectCols+` FROM contribution_reports WHERE username = $1 ORDER BY year`,
		username,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "list contribution reports")
	}
	return out, nil
}

// YearsWithData returns the years that already hold a snapshot, ascending
func (s *pg) YearsWithData(ctx context.Context, username string) ([]int, error) {
	years, err := store.Many(ctx, s.q,
		func(r repokit.Row) (int, error) {
			var y int
			err := r.Scan(&y)
			return y, err
		},
		`SELECT year FROM contribution_reports WHERE username = $1 ORDER BY year`,
		username,
	)
	if err != nil {
		return nil, perr.FromPostgres(err, "list report years")
	}
	return years, nil
}

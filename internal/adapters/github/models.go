package github

import (
	"encoding/json"
	"time"

	perr "ghsummary/internal/platform/errors"
)

// Typed result shapes for the query documents in queries.go.
// Required objects are pointers so a missing field is caught at the parse
// boundary and surfaces as a JSON error instead of a zero value sneaking
// through.

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

type namedLanguage struct {
	Name string `json:"name"`
}

type ownerLogin struct {
	Login string `json:"login"`
}

type repoContribution struct {
	Repository *struct {
		Name            string         `json:"name"`
		Owner           *ownerLogin    `json:"owner"`
		PrimaryLanguage *namedLanguage `json:"primaryLanguage"`
	} `json:"repository"`
	Contributions *totalCount `json:"contributions"`
}

type contributionsCollection struct {
	TotalCommitContributions                     int                `json:"totalCommitContributions"`
	TotalIssueContributions                      int                `json:"totalIssueContributions"`
	TotalPullRequestContributions                int                `json:"totalPullRequestContributions"`
	TotalPullRequestReviewContributions          int                `json:"totalPullRequestReviewContributions"`
	TotalRepositoriesWithContributedCommits      int                `json:"totalRepositoriesWithContributedCommits"`
	TotalRepositoriesWithContributedPullRequests int                `json:"totalRepositoriesWithContributedPullRequests"`
	TotalRepositoriesWithContributedIssues       int                `json:"totalRepositoriesWithContributedIssues"`
	RestrictedContributionsCount                 int                `json:"restrictedContributionsCount"`
	CommitContributionsByRepository              []repoContribution `json:"commitContributionsByRepository"`
}

type contributionsData struct {
	User *struct {
		ContributionsCollection *contributionsCollection `json:"contributionsCollection"`
		Repositories            *totalCount              `json:"repositories"`
		StarredRepositories     *totalCount              `json:"starredRepositories"`
		Followers               *totalCount              `json:"followers"`
		Following               *totalCount              `json:"following"`
		Issues                  *totalCount              `json:"issues"`
		RepositoryDiscussions   *totalCount              `json:"repositoryDiscussions"`
	} `json:"user"`
}

func (d contributionsData) validate() error {
	if d.User == nil {
		return missingField("user")
	}
	if d.User.ContributionsCollection == nil {
		return missingField("user.contributionsCollection")
	}
	if d.User.Repositories == nil {
		return missingField("user.repositories")
	}
	if d.User.StarredRepositories == nil {
		return missingField("user.starredRepositories")
	}
	if d.User.Followers == nil {
		return missingField("user.followers")
	}
	if d.User.Following == nil {
		return missingField("user.following")
	}
	if d.User.Issues == nil {
		return missingField("user.issues")
	}
	if d.User.RepositoryDiscussions == nil {
		return missingField("user.repositoryDiscussions")
	}
	return nil
}

type prNode struct {
	CreatedAt time.Time  `json:"createdAt"`
	MergedAt  *time.Time `json:"mergedAt"`
	Additions *int       `json:"additions"`
	Deletions *int       `json:"deletions"`

	BaseRepository *struct {
		Owner *ownerLogin `json:"owner"`
	} `json:"baseRepository"`
}

type pullRequestsData struct {
	User *struct {
		PullRequests *struct {
			PageInfo pageInfo `json:"pageInfo"`
			Nodes    []prNode `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"user"`
}

func (d pullRequestsData) validate() error {
	if d.User == nil {
		return missingField("user")
	}
	if d.User.PullRequests == nil {
		return missingField("user.pullRequests")
	}
	return nil
}

type repoActivityData struct {
	User *struct {
		ID                      string `json:"id"`
		ContributionsCollection *struct {
			CommitContributionsByRepository []repoContribution `json:"commitContributionsByRepository"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

func (d repoActivityData) validate() error {
	if d.User == nil {
		return missingField("user")
	}
	if d.User.ID == "" {
		return missingField("user.id")
	}
	if d.User.ContributionsCollection == nil {
		return missingField("user.contributionsCollection")
	}
	return nil
}

type commitNode struct {
	OID           string    `json:"oid"`
	CommittedDate time.Time `json:"committedDate"`
	Additions     *int      `json:"additions"`
	Deletions     *int      `json:"deletions"`

	Author *struct {
		User *ownerLogin `json:"user"`
	} `json:"author"`
}

type commitHistoryData struct {
	Repository *struct {
		Object *struct {
			History *struct {
				PageInfo pageInfo     `json:"pageInfo"`
				Nodes    []commitNode `json:"nodes"`
			} `json:"history"`
		} `json:"object"`
	} `json:"repository"`
}

// empty reports whether the repository or its HEAD object is absent,
// which ends the history walk without error
func (d commitHistoryData) empty() bool {
	return d.Repository == nil || d.Repository.Object == nil || d.Repository.Object.History == nil
}

// decodeData unmarshals a raw data object into dst, mapping failures to
// the JSON error code
func decodeData(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return perr.JSONErrf("github data decode failed: %v", err)
	}
	return nil
}

func missingField(path string) error {
	return perr.JSONErrf("github response missing %s", path)
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

package github

// GraphQL documents used by the fetchers. Variables are injected through
// the transport, never interpolated into the document text.

const contributionsQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      totalCommitContributions
      totalIssueContributions
      totalPullRequestContributions
      totalPullRequestReviewContributions
      totalRepositoriesWithContributedCommits
      totalRepositoriesWithContributedPullRequests
      totalRepositoriesWithContributedIssues
      restrictedContributionsCount
      commitContributionsByRepository {
        repository {
          name
          primaryLanguage { name }
        }
        contributions { totalCount }
      }
    }
    repositories(ownerAffiliations: OWNER) {
      totalCount
    }
    starredRepositories { totalCount }
    followers { totalCount }
    following { totalCount }
    issues(states: [OPEN, CLOSED]) {
      totalCount
    }
    repositoryDiscussions {
      totalCount
    }
  }
}`

const pullRequestsQuery = `
query($login: String!, $pageSize: Int!, $cursor: String) {
  user(login: $login) {
    pullRequests(
      first: $pageSize,
      states: [MERGED],
      after: $cursor,
      orderBy: {field: CREATED_AT, direction: DESC}
    ) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        createdAt
        mergedAt
        additions
        deletions
        baseRepository {
          owner { login }
        }
      }
    }
  }
}`

const repoActivityQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    id
    contributionsCollection(from: $from, to: $to) {
      commitContributionsByRepository {
        repository {
          name
          owner { login }
        }
      }
    }
  }
}`

const commitHistoryQuery = `
query(
  $owner: String!,
  $repo: String!,
  $authorId: ID!,
  $since: GitTimestamp!,
  $until: GitTimestamp!,
  $pageSize: Int!,
  $cursor: String
) {
  repository(owner: $owner, name: $repo) {
    object(expression: "HEAD") {
      ... on Commit {
        history(
          first: $pageSize,
          since: $since,
          until: $until,
          author: {id: $authorId},
          after: $cursor
        ) {
          pageInfo {
            hasNextPage
            endCursor
          }
          nodes {
            oid
            committedDate
            additions
            deletions
            author {
              user { login }
            }
          }
        }
      }
    }
  }
}`

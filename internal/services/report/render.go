// Package report renders contribution snapshots and aggregates as Markdown
package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ghsummary/internal/services/contrib/domain"
)

// topN caps for the language sections
const (
	yearlyTopLanguages  = 5
	alltimeTopLanguages = 10
)

// Renderer writes Markdown reports with locale-aware number formatting
type Renderer struct {
	p *message.Printer
}

// New returns a Renderer formatting numbers for English locales
func New() *Renderer {
	return &Renderer{p: message.NewPrinter(language.English)}
}

// n formats an int with thousand separators
func (rd *Renderer) n(v int) string { return rd.p.Sprintf("%d", v) }

// Yearly renders the single year contribution report
func (rd *Renderer) Yearly(s domain.Snapshot) string {
	total := s.TotalCommits + s.TotalPRs + s.TotalIssues + s.TotalDiscussions

	var b strings.Builder
	fmt.Fprintf(&b, "# GitHub Contributions Report\n\n")
	fmt.Fprintf(&b, "- User: `%s`\n", s.Username)
	fmt.Fprintf(&b, "- Year: %d\n\n", s.Year)

	fmt.Fprintf(&b, "## Contribution Summary\n\n")
	fmt.Fprintf(&b, "- Total Contributions: **%s**\n", rd.n(total))
	fmt.Fprintf(&b, "- Commits: **%s**\n", rd.n(s.TotalCommits))
	fmt.Fprintf(&b, "- Pull Requests: **%s**\n", rd.n(s.TotalPRs))
	fmt.Fprintf(&b, "- Issues: **%s**\n", rd.n(s.TotalIssues))
	fmt.Fprintf(&b, "- Discussions: **%s**\n", rd.n(s.TotalDiscussions))
	fmt.Fprintf(&b, "- Code Reviews: **%s**\n\n", rd.n(s.TotalReviews))

	fmt.Fprintf(&b, "## Code Statistics\n\n")
	fmt.Fprintf(&b, "- Lines Added: **%s**\n", rd.n(s.LinesAdded))
	fmt.Fprintf(&b, "- Lines Deleted: **%s**\n", rd.n(s.LinesDeleted))
	fmt.Fprintf(&b, "- Net Lines: **%s**\n\n", rd.n(s.LinesAdded-s.LinesDeleted))

	fmt.Fprintf(&b, "## Activity Metrics\n\n")
	fmt.Fprintf(&b, "- Repositories Contributed: **%s**\n", rd.n(s.RepositoriesContributed))
	fmt.Fprintf(&b, "- Public Repositories: **%s**\n", rd.n(s.PublicRepos))
	fmt.Fprintf(&b, "- Private Contributions: **%s**\n\n", rd.n(s.PrivateContributions))

	fmt.Fprintf(&b, "## Social Stats\n\n")
	fmt.Fprintf(&b, "- Starred Repos: **%s**\n", rd.n(s.StarredRepos))
	fmt.Fprintf(&b, "- Followers: **%s**\n", rd.n(s.Followers))
	fmt.Fprintf(&b, "- Following: **%s**\n\n", rd.n(s.Following))

	fmt.Fprintf(&b, "## Top Languages\n\n")
	rd.writeLanguageList(&b, s.Languages, yearlyTopLanguages)

	if !s.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "\n_Cached report from %s_\n", s.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	return b.String()
}

// Comparison renders a year-over-year view of the given snapshots,
// expected oldest first
func (rd *Renderer) Comparison(username string, snaps []domain.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Year-over-Year Comparison for %s\n\n", username)
	if len(snaps) == 0 {
		b.WriteString("No stored reports to compare\n")
		return b.String()
	}
	for _, s := range snaps {
		fmt.Fprintf(&b, "## %d\n\n", s.Year)
		fmt.Fprintf(&b, "- Commits: **%s**\n", rd.n(s.TotalCommits))
		fmt.Fprintf(&b, "- Pull Requests: **%s**\n", rd.n(s.TotalPRs))
		fmt.Fprintf(&b, "- Issues: **%s**\n\n", rd.n(s.TotalIssues))
	}
	return b.String()
}

// AllTime renders the aggregated all years report
func (rd *Renderer) AllTime(a domain.AllTimeAggregate) string {
	total := a.TotalCommits + a.TotalPRs + a.TotalIssues + a.TotalDiscussions

	var b strings.Builder
	fmt.Fprintf(&b, "# All-Time GitHub Statistics\n\n")
	fmt.Fprintf(&b, "- User: `%s`\n", a.Username)
	fmt.Fprintf(&b, "- Period: %d - %d (%d years)\n\n", a.FirstYear, a.LastYear, a.TotalYears)

	fmt.Fprintf(&b, "## Total Contributions\n\n")
	fmt.Fprintf(&b, "- All Contributions: **%s**\n", rd.n(total))
	fmt.Fprintf(&b, "- Commits: **%s**\n", rd.n(a.TotalCommits))
	fmt.Fprintf(&b, "- Pull Requests: **%s**\n", rd.n(a.TotalPRs))
	fmt.Fprintf(&b, "- Issues: **%s**\n", rd.n(a.TotalIssues))
	fmt.Fprintf(&b, "- Discussions: **%s**\n", rd.n(a.TotalDiscussions))
	fmt.Fprintf(&b, "- Code Reviews: **%s**\n\n", rd.n(a.TotalReviews))

	fmt.Fprintf(&b, "## Code Statistics\n\n")
	fmt.Fprintf(&b, "- Lines Added: **%s**\n", rd.n(a.LinesAdded))
	fmt.Fprintf(&b, "- Lines Deleted: **%s**\n", rd.n(a.LinesDeleted))
	fmt.Fprintf(&b, "- Net Lines: **%s**\n\n", rd.n(a.LinesAdded-a.LinesDeleted))

	fmt.Fprintf(&b, "## Activity Metrics\n\n")
	fmt.Fprintf(&b, "- Repositories Contributed: **%s**\n", rd.n(a.RepositoriesContributed))
	fmt.Fprintf(&b, "- Public Repositories: **%s**\n", rd.n(a.PublicRepos))
	fmt.Fprintf(&b, "- Private Contributions: **%s**\n\n", rd.n(a.PrivateContributions))

	fmt.Fprintf(&b, "## Social Stats\n\n")
	fmt.Fprintf(&b, "- Starred Repos: **%s**\n", rd.n(a.StarredRepos))
	fmt.Fprintf(&b, "- Followers: **%s**\n", rd.n(a.Followers))
	fmt.Fprintf(&b, "- Following: **%s**\n\n", rd.n(a.Following))

	fmt.Fprintf(&b, "## Top Languages (All Time)\n\n")
	rd.writeLanguageList(&b, a.Languages, alltimeTopLanguages)

	fmt.Fprintf(&b, "\n_Last updated: %s_\n", a.LastUpdated.UTC().Format("2006-01-02 15:04 UTC"))
	return b.String()
}

// Languages renders the histogram with percentage bars, one bar block per 5%
func (rd *Renderer) Languages(username string, year int, languages map[string]int) string {
	if len(languages) == 0 {
		return fmt.Sprintf("No language data available for %s (%d)\n", username, year)
	}

	var sum int
	for _, c := range languages {
		sum += c
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Language Statistics for %s (%d)\n\n", username, year)
	for _, lc := range sortLanguages(languages, alltimeTopLanguages) {
		pct := float64(lc.Count) / float64(sum) * 100
		bar := strings.Repeat("█", int(pct/5))
		fmt.Fprintf(&b, "`%-12s` %s %.1f%% (%s commits)\n", lc.Name, bar, pct, rd.n(lc.Count))
	}
	return b.String()
}

type langCount struct {
	Name  string
	Count int
}

// sortLanguages orders by count descending, then name for a stable report
func sortLanguages(languages map[string]int, limit int) []langCount {
	out := make([]langCount, 0, len(languages))
	for name, count := range languages {
		out = append(out, langCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (rd *Renderer) writeLanguageList(b *strings.Builder, languages map[string]int, limit int) {
	if len(languages) == 0 {
		b.WriteString("No language data available\n")
		return
	}
	for i, lc := range sortLanguages(languages, limit) {
		fmt.Fprintf(b, "%d. %s: %s commits\n", i+1, lc.Name, rd.n(lc.Count))
	}
}

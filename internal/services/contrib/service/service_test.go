package service_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/services/contrib/domain"
	"ghsummary/internal/services/contrib/service"
)

type fakeSource struct {
	calls []int
	fail  map[int]error
}

func (f *fakeSource) FetchSnapshot(_ context.Context, username string, p domain.Period) (domain.Snapshot, error) {
	year := p.YearKey()
	f.calls = append(f.calls, year)
	if err, ok := f.fail[year]; ok {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		Username:     username,
		Year:         year,
		TotalCommits: 10,
		Languages:    map[string]int{"Go": 10},
		LinesMethod:  domain.MethodNone,
		CreatedAt:    time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeLines struct {
	delta domain.LineDelta
	err   error
	calls int
}

func (f *fakeLines) Calculate(context.Context, string, domain.Period) (domain.LineDelta, error) {
	f.calls++
	return f.delta, f.err
}

type fakeStorage struct {
	byYear  map[int]domain.Snapshot
	nextID  int
	retErr  error
	storeds []domain.Snapshot
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{byYear: map[int]domain.Snapshot{}}
}

func (f *fakeStorage) Store(_ context.Context, s domain.Snapshot) (string, error) {
	f.nextID++
	s.ID = fmt.Sprintf("%d", f.nextID)
	f.byYear[s.Year] = s
	f.storeds = append(f.storeds, s)
	return s.ID, nil
}

func (f *fakeStorage) Retrieve(_ context.Context, _ string, year int) (domain.Snapshot, error) {
	if f.retErr != nil {
		return domain.Snapshot{}, f.retErr
	}
	s, ok := f.byYear[year]
	if !ok {
		return domain.Snapshot{}, perr.NotFoundf("no report for %d", year)
	}
	return s, nil
}

func (f *fakeStorage) YearsWithData(context.Context, string) ([]int, error) {
	years := make([]int, 0, len(f.byYear))
	for y := range f.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func (f *fakeStorage) Snapshots(context.Context, string) ([]domain.Snapshot, error) {
	years, _ := f.YearsWithData(context.Background(), "")
	out := make([]domain.Snapshot, 0, len(years))
	for _, y := range years {
		out = append(out, f.byYear[y])
	}
	return out, nil
}

func newService(src *fakeSource, lines *fakeLines, st *fakeStorage, earliest int) *service.Service {
	return service.New(src, lines, st, nil, service.Config{EarliestYear: earliest})
}

func TestYearlyReportFoldsLineDelta(t *testing.T) {
	src := &fakeSource{}
	lines := &fakeLines{delta: domain.LineDelta{
		LinesAdded: 500, LinesDeleted: 120, Method: domain.MethodPullRequests, ItemCount: 4,
	}}
	st := newFakeStorage()
	svc := newService(src, lines, st, 2008)

	snap, err := svc.YearlyReport(context.Background(), "octocat", domain.CalendarYear(2024))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LinesAdded != 500 || snap.LinesDeleted != 120 || snap.LinesMethod != domain.MethodPullRequests {
		t.Fatalf("delta not folded: %+v", snap)
	}
	if snap.ID == "" {
		t.Fatalf("expected stored id on the returned snapshot")
	}
	if len(st.storeds) != 1 || st.storeds[0].LinesAdded != 500 {
		t.Fatalf("persisted snapshot must carry the delta: %+v", st.storeds)
	}
}

func TestYearlyReportSourceFailureStoresNothing(t *testing.T) {
	src := &fakeSource{fail: map[int]error{2024: perr.Unavailablef("down")}}
	st := newFakeStorage()
	svc := newService(src, &fakeLines{}, st, 2008)

	_, err := svc.YearlyReport(context.Background(), "octocat", domain.CalendarYear(2024))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if len(st.storeds) != 0 {
		t.Fatalf("no partial snapshot may be persisted")
	}
}

func TestCachedReportHitSkipsFetch(t *testing.T) {
	src := &fakeSource{}
	st := newFakeStorage()
	st.byYear[2024] = domain.Snapshot{ID: "7", Username: "octocat", Year: 2024, TotalCommits: 42}
	svc := newService(src, &fakeLines{}, st, 2008)

	snap, err := svc.CachedReport(context.Background(), "octocat", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TotalCommits != 42 {
		t.Fatalf("expected stored snapshot, got %+v", snap)
	}
	if len(src.calls) != 0 {
		t.Fatalf("cache hit must not reach the source")
	}
}

func TestCachedReportMissComputes(t *testing.T) {
	src := &fakeSource{}
	lines := &fakeLines{delta: domain.LineDelta{Method: domain.MethodCommits}}
	st := newFakeStorage()
	svc := newService(src, lines, st, 2008)

	snap, err := svc.CachedReport(context.Background(), "octocat", 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Year != 2024 || snap.ID == "" {
		t.Fatalf("expected computed and stored snapshot, got %+v", snap)
	}
	if len(src.calls) != 1 {
		t.Fatalf("expected one source call, got %d", len(src.calls))
	}
}

func TestCachedReportStorageErrorPropagates(t *testing.T) {
	src := &fakeSource{}
	st := newFakeStorage()
	st.retErr = perr.DBf("connection lost")
	svc := newService(src, &fakeLines{}, st, 2008)

	_, err := svc.CachedReport(context.Background(), "octocat", 2024)
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
	if len(src.calls) != 0 {
		t.Fatalf("storage failures must not trigger a fetch")
	}
}

func TestValidateYearBounds(t *testing.T) {
	svc := newService(&fakeSource{}, &fakeLines{}, newFakeStorage(), 2008)
	current := time.Now().UTC().Year()

	if err := svc.ValidateYear(2007); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for pre-2008, got %v", err)
	}
	if err := svc.ValidateYear(current + 1); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for future year, got %v", err)
	}
	if err := svc.ValidateYear(2008); err != nil {
		t.Fatalf("2008 must validate: %v", err)
	}
	if err := svc.ValidateYear(current); err != nil {
		t.Fatalf("current year must validate: %v", err)
	}
}

func TestYearComparisonSkipsMissingYears(t *testing.T) {
	current := time.Now().UTC().Year()
	st := newFakeStorage()
	// the middle year was never analyzed
	st.byYear[current-2] = domain.Snapshot{Username: "octocat", Year: current - 2, TotalCommits: 80}
	st.byYear[current] = domain.Snapshot{Username: "octocat", Year: current, TotalCommits: 120}
	src := &fakeSource{}
	svc := newService(src, &fakeLines{}, st, 2008)

	snaps, err := svc.YearComparison(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Year != current-2 || snaps[1].Year != current {
		t.Fatalf("expected oldest first, got %d then %d", snaps[0].Year, snaps[1].Year)
	}
	if len(src.calls) != 0 {
		t.Fatalf("comparison must not fetch")
	}
}

func TestYearComparisonStorageErrorPropagates(t *testing.T) {
	st := newFakeStorage()
	st.retErr = perr.Newf(perr.ErrorCodeDB, "db down")
	svc := newService(&fakeSource{}, &fakeLines{}, st, 2008)

	_, err := svc.YearComparison(context.Background(), "octocat")
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error to propagate, got %v", err)
	}
}

func TestAllTimeReportBackfillsAndContinues(t *testing.T) {
	current := time.Now().UTC().Year()
	earliest := current - 2

	src := &fakeSource{fail: map[int]error{current - 1: perr.Unavailablef("flaky year")}}
	lines := &fakeLines{delta: domain.LineDelta{Method: domain.MethodCommits}}
	st := newFakeStorage()
	// earliest year is already stored; it must not be fetched again
	st.byYear[earliest] = domain.Snapshot{Username: "octocat", Year: earliest, TotalCommits: 5}
	svc := newService(src, lines, st, earliest)

	agg, err := svc.AllTimeReport(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// stored year skipped, both missing years attempted
	for _, y := range src.calls {
		if y == earliest {
			t.Fatalf("stored year must not be refetched")
		}
	}
	if len(src.calls) != 2 {
		t.Fatalf("expected 2 backfill attempts, got %v", src.calls)
	}

	// the failed year is absent, the rest aggregate
	if agg.TotalYears != 2 {
		t.Fatalf("expected 2 aggregated years, got %d", agg.TotalYears)
	}
	if agg.TotalCommits != 15 {
		t.Fatalf("expected 5+10 commits, got %d", agg.TotalCommits)
	}
	if agg.FirstYear != earliest || agg.LastYear != current {
		t.Fatalf("bad span: %+v", agg)
	}
}

func TestAllTimeReportNoData(t *testing.T) {
	current := time.Now().UTC().Year()
	src := &fakeSource{fail: map[int]error{}}
	for y := current - 1; y <= current; y++ {
		src.fail[y] = perr.Unavailablef("down")
	}
	svc := newService(src, &fakeLines{}, newFakeStorage(), current-1)

	_, err := svc.AllTimeReport(context.Background(), "nobody")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found when nothing aggregates, got %v", err)
	}
}

func TestAllTimeReportCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newService(&fakeSource{}, &fakeLines{}, newFakeStorage(), 2008)

	_, err := svc.AllTimeReport(ctx, "octocat")
	if err == nil {
		t.Fatalf("expected context error")
	}
}

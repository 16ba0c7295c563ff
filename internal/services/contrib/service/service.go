// Package service provides the contribution reporting service implementation
package service

import (
	"context"
	"fmt"
	"time"

	perr "ghsummary/internal/platform/errors"
	"ghsummary/internal/platform/logger"
	"ghsummary/internal/services/contrib/domain"
	"ghsummary/internal/services/contrib/repo"

	"github.com/google/uuid"
)

// Config for the contribution service
type Config struct {
	// EarliestYear floors backfills and year validation, defaults to
	// domain.EarliestYear
	EarliestYear int
}

// Service composes source, line calculation, and storage into the two
// report operations exposed to the front ends
type Service struct {
	log      logger.Logger
	source   domain.SourcePort
	lines    domain.LinesPort
	storage  repo.Storage
	progress domain.ProgressPort
	cfg      Config
	now      func() time.Time
}

// New constructs the service; progress may be nil
func New(source domain.SourcePort, lines domain.LinesPort, storage repo.Storage, progress domain.ProgressPort, cfg Config) *Service {
	if cfg.EarliestYear <= 0 {
		cfg.EarliestYear = domain.EarliestYear
	}
	return &Service{
		log:      *logger.Named("contrib"),
		source:   source,
		lines:    lines,
		storage:  storage,
		progress: progress,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Service) report(ctx context.Context, msg string) {
	if s.progress != nil {
		s.progress.Report(ctx, msg)
	}
}

// ValidateYear checks a requested report year against the supported range
func (s *Service) ValidateYear(year int) error {
	current := s.now().UTC().Year()
	if year < s.cfg.EarliestYear || year > current {
		return perr.InvalidArgf("year must be between %d and %d", s.cfg.EarliestYear, current)
	}
	return nil
}

// YearlyReport fetches a fresh snapshot for the period, fills in line
// counts, persists it, and returns the stored result
// the snapshot is complete or the call fails; no partial snapshots escape
func (s *Service) YearlyReport(ctx context.Context, username string, p domain.Period) (domain.Snapshot, error) {
	snap, err := s.source.FetchSnapshot(ctx, username, p)
	if err != nil {
		return domain.Snapshot{}, err
	}

	delta, err := s.lines.Calculate(ctx, username, p)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.LinesAdded = delta.LinesAdded
	snap.LinesDeleted = delta.LinesDeleted
	snap.LinesMethod = delta.Method

	id, err := s.storage.Store(ctx, snap)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.ID = id

	s.log.Info().
		Str("username", username).
		Str("period", p.Description()).
		Str("lines_method", delta.Method).
		Int("lines_added", delta.LinesAdded).
		Int("lines_deleted", delta.LinesDeleted).
		Msg("yearly report stored")
	return snap, nil
}

// CachedReport returns the stored snapshot for a year, computing and
// persisting a fresh one when none exists yet
func (s *Service) CachedReport(ctx context.Context, username string, year int) (domain.Snapshot, error) {
	if err := s.ValidateYear(year); err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := s.storage.Retrieve(ctx, username, year)
	if err == nil {
		return snap, nil
	}
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.Snapshot{}, err
	}
	return s.YearlyReport(ctx, username, domain.CalendarYear(year))
}

// StoredReport returns the stored snapshot for a year without fetching
func (s *Service) StoredReport(ctx context.Context, username string, year int) (domain.Snapshot, error) {
	if err := s.ValidateYear(year); err != nil {
		return domain.Snapshot{}, err
	}
	return s.storage.Retrieve(ctx, username, year)
}

// YearComparison returns the stored snapshots for the last three calendar
// years, oldest first; years without a stored report are skipped
func (s *Service) YearComparison(ctx context.Context, username string) ([]domain.Snapshot, error) {
	current := s.now().UTC().Year()
	snaps := make([]domain.Snapshot, 0, 3)
	for year := current - 2; year <= current; year++ {
		snap, err := s.storage.Retrieve(ctx, username, year)
		if err != nil {
			if perr.IsCode(err, perr.ErrorCodeNotFound) {
				continue
			}
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// AllTimeReport backfills any missing years in [EarliestYear, now] and
// aggregates whatever storage then holds
// the backfill walks years sequentially, continues past single year
// failures, and checks for cancellation between years
func (s *Service) AllTimeReport(ctx context.Context, username string) (domain.AllTimeAggregate, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("username", username).Logger()

	years, err := s.storage.YearsWithData(ctx, username)
	if err != nil {
		return domain.AllTimeAggregate{}, err
	}
	have := make(map[int]bool, len(years))
	for _, y := range years {
		have[y] = true
	}

	current := s.now().UTC().Year()
	var failed int
	for year := s.cfg.EarliestYear; year <= current; year++ {
		if err := ctx.Err(); err != nil {
			return domain.AllTimeAggregate{}, err
		}
		if have[year] {
			continue
		}
		s.report(ctx, fmt.Sprintf("Fetching %d contributions for %s...", year, username))
		if _, err := s.YearlyReport(ctx, username, domain.CalendarYear(year)); err != nil {
			if ctx.Err() != nil {
				return domain.AllTimeAggregate{}, ctx.Err()
			}
			failed++
			log.Warn().Err(err).Int("year", year).Msg("backfill year failed, continuing")
		}
	}

	snaps, err := s.storage.Snapshots(ctx, username)
	if err != nil {
		return domain.AllTimeAggregate{}, err
	}
	agg := AggregateYears(snaps)
	if agg == nil {
		return domain.AllTimeAggregate{}, perr.NotFoundf("no contribution data for %s", username)
	}

	log.Info().
		Int("years", agg.TotalYears).
		Int("failed_years", failed).
		Msg("all-time aggregate built")
	return *agg, nil
}

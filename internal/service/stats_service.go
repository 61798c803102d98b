package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

const topBreakdownLimit = 15
const topProgramsPerEvent = 5

type statsRepository interface {
	Totals(ctx context.Context, f models.StatsFilter, windowStartYear int) (*models.StatsTotals, error)
	AverageEvaluation(ctx context.Context, f models.StatsFilter, windowStartYear int) (float64, error)
	ByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error)
	ByProgramModality(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error)
	CrossTab(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CrossTabCell, error)
	MonthlyTrend(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CountItem, error)
	TopProgramsByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, perEvent int) ([]models.EventProgramRank, error)
	Distribution(ctx context.Context, f models.StatsFilter, windowStartYear int, column string) ([]models.CountItem, error)
	FilterOptions(ctx context.Context, column string) ([]string, error)
}

// StatsConfig tunes the dashboard window and cache.
type StatsConfig struct {
	WindowYears int
	CacheTTL    time.Duration
}

// StatsService assembles the dashboard payload. Results are cached per
// filter combination; writes to attendances invalidate the stats keys.
type StatsService struct {
	repo   statsRepository
	cache  *CacheService
	logger *zap.Logger
	config StatsConfig

	now func() time.Time
}

func NewStatsService(repo statsRepository, cache *CacheService, logger *zap.Logger, config StatsConfig) *StatsService {
	if config.WindowYears <= 0 {
		config.WindowYears = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StatsService{repo: repo, cache: cache, logger: logger, config: config, now: time.Now}
}

// WindowStartYear computes the first year of a trailing window of `years`
// years ending at `now`. With years=5 in 2026 the window is 2022..2026.
func WindowStartYear(now time.Time, years int) int {
	return now.Year() - (years - 1)
}

// Overview builds the dashboard for the given filters, using the trailing
// year window when no explicit dates are set.
func (s *StatsService) Overview(ctx context.Context, filter models.StatsFilter) (*models.StatsOverview, error) {
	key := s.cacheKey(filter)

	var cached models.StatsOverview
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	windowStart := 0
	if filter.DateFrom == "" && filter.DateTo == "" {
		windowStart = WindowStartYear(s.now(), s.config.WindowYears)
	}

	overview := &models.StatsOverview{WindowStartYear: windowStart}

	totals, err := s.repo.Totals(ctx, filter, windowStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute totals")
	}
	overview.Totals = *totals

	average, err := s.repo.AverageEvaluation(ctx, filter, windowStart)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average evaluation")
	}
	overview.Totals.AverageScore = average

	if overview.ByEvent, err = s.repo.ByEvent(ctx, filter, windowStart, topBreakdownLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute event breakdown")
	}
	if overview.ByProgramModality, err = s.repo.ByProgramModality(ctx, filter, windowStart, topBreakdownLimit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute program breakdown")
	}
	if overview.CrossTab, err = s.repo.CrossTab(ctx, filter, windowStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute cross tab")
	}
	if overview.MonthlyTrend, err = s.repo.MonthlyTrend(ctx, filter, windowStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute monthly trend")
	}
	if overview.TopProgramsByEvent, err = s.repo.TopProgramsByEvent(ctx, filter, windowStart, topProgramsPerEvent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute top programs per event")
	}
	if overview.ByAttendeeType, err = s.repo.Distribution(ctx, filter, windowStart, "attendee_type"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute attendee type distribution")
	}
	if overview.ByModality, err = s.repo.Distribution(ctx, filter, windowStart, "modality"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute modality distribution")
	}
	if overview.EventOptions, err = s.repo.FilterOptions(ctx, "event_name"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list event options")
	}
	if overview.ProgramOptions, err = s.repo.FilterOptions(ctx, "attendee_program"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list program options")
	}

	s.cache.Set(ctx, key, overview, s.config.CacheTTL)

	return overview, nil
}

func (s *StatsService) cacheKey(f models.StatsFilter) string {
	return fmt.Sprintf("stats:overview:%s|%s|%s|%s", f.Event, f.Program, f.DateFrom, f.DateTo)
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type retentionAttendanceRepository interface {
	CountOlderThan(ctx context.Context, cutoffYear int) (int, error)
	DeleteOlderThan(ctx context.Context, cutoffYear int) (int64, error)
}

// RetentionResult describes a purge preview or execution.
type RetentionResult struct {
	CutoffYear int   `json:"cutoff_year"`
	Affected   int64 `json:"affected"`
	Purged     bool  `json:"purged"`
}

// RetentionService removes attendance rows whose event year fell out of the
// trailing window the dashboards use.
type RetentionService struct {
	repo        retentionAttendanceRepository
	cache       *CacheService
	logger      *zap.Logger
	windowYears int

	now func() time.Time
}

func NewRetentionService(repo retentionAttendanceRepository, cache *CacheService, logger *zap.Logger, windowYears int) *RetentionService {
	if windowYears <= 0 {
		windowYears = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RetentionService{repo: repo, cache: cache, logger: logger, windowYears: windowYears, now: time.Now}
}

// Preview counts the rows a purge would remove.
func (s *RetentionService) Preview(ctx context.Context) (*RetentionResult, error) {
	cutoff := WindowStartYear(s.now(), s.windowYears)

	count, err := s.repo.CountOlderThan(ctx, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count old attendances")
	}

	return &RetentionResult{CutoffYear: cutoff, Affected: int64(count)}, nil
}

// Purge deletes rows older than the window start year.
func (s *RetentionService) Purge(ctx context.Context) (*RetentionResult, error) {
	cutoff := WindowStartYear(s.now(), s.windowYears)

	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge old attendances")
	}

	if removed > 0 {
		s.cache.InvalidatePattern(ctx, statsCachePattern)
		s.logger.Info("old attendances purged",
			zap.Int("cutoff_year", cutoff),
			zap.Int64("removed", removed),
		)
	}

	return &RetentionResult{CutoffYear: cutoff, Affected: removed, Purged: true}, nil
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
)

type statsRepoStub struct {
	totalsCalls  int
	windowStarts []int
}

func (s *statsRepoStub) record(windowStart int) {
	s.windowStarts = append(s.windowStarts, windowStart)
}

func (s *statsRepoStub) Totals(ctx context.Context, f models.StatsFilter, windowStartYear int) (*models.StatsTotals, error) {
	s.totalsCalls++
	s.record(windowStartYear)
	return &models.StatsTotals{Attendances: 320, DistinctEvents: 12, DistinctPrograms: 9}, nil
}

func (s *statsRepoStub) AverageEvaluation(ctx context.Context, f models.StatsFilter, windowStartYear int) (float64, error) {
	s.record(windowStartYear)
	return 4.2, nil
}

func (s *statsRepoStub) ByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error) {
	s.record(windowStartYear)
	return []models.CountItem{{Label: "Taller de Normas APA", Count: 120}}, nil
}

func (s *statsRepoStub) ByProgramModality(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error) {
	s.record(windowStartYear)
	return []models.CountItem{{Label: "Derecho - Presencial", Count: 40}}, nil
}

func (s *statsRepoStub) CrossTab(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CrossTabCell, error) {
	s.record(windowStartYear)
	return nil, nil
}

func (s *statsRepoStub) MonthlyTrend(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CountItem, error) {
	s.record(windowStartYear)
	return []models.CountItem{{Label: "2026-03", Count: 55}}, nil
}

func (s *statsRepoStub) TopProgramsByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, perEvent int) ([]models.EventProgramRank, error) {
	s.record(windowStartYear)
	return nil, nil
}

func (s *statsRepoStub) Distribution(ctx context.Context, f models.StatsFilter, windowStartYear int, column string) ([]models.CountItem, error) {
	s.record(windowStartYear)
	return nil, nil
}

func (s *statsRepoStub) FilterOptions(ctx context.Context, column string) ([]string, error) {
	return []string{"Taller de Normas APA"}, nil
}

// memoryCacheStub is an in-process cacheRepository used to exercise the
// cache hit path without Redis.
type memoryCacheStub struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCacheStub() *memoryCacheStub {
	return &memoryCacheStub{entries: make(map[string][]byte)}
}

func (m *memoryCacheStub) Enabled() bool { return true }

func (m *memoryCacheStub) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return raw, nil
}

func (m *memoryCacheStub) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string][]byte)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func TestWindowStartYear(t *testing.T) {
	assert.Equal(t, 2022, WindowStartYear(fixedNow(), 5))
	assert.Equal(t, 2026, WindowStartYear(fixedNow(), 1))
}

func TestStatsOverviewUsesTrailingWindow(t *testing.T) {
	repo := &statsRepoStub{}
	svc := NewStatsService(repo, nil, nil, StatsConfig{WindowYears: 5})
	svc.now = fixedNow

	overview, err := svc.Overview(context.Background(), models.StatsFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2022, overview.WindowStartYear)
	require.NotEmpty(t, repo.windowStarts)
	for _, start := range repo.windowStarts {
		assert.Equal(t, 2022, start)
	}
	assert.Equal(t, 320, overview.Totals.Attendances)
	assert.InDelta(t, 4.2, overview.Totals.AverageScore, 0.001)
}

func TestStatsOverviewExplicitDatesSkipWindow(t *testing.T) {
	repo := &statsRepoStub{}
	svc := NewStatsService(repo, nil, nil, StatsConfig{WindowYears: 5})
	svc.now = fixedNow

	overview, err := svc.Overview(context.Background(), models.StatsFilter{
		DateFrom: "2018-01-01",
		DateTo:   "2018-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, overview.WindowStartYear)
	for _, start := range repo.windowStarts {
		assert.Equal(t, 0, start)
	}
}

func TestStatsOverviewServedFromCache(t *testing.T) {
	repo := &statsRepoStub{}
	cache := NewCacheService(newMemoryCacheStub(), nil, time.Minute, nil)
	svc := NewStatsService(repo, cache, nil, StatsConfig{WindowYears: 5, CacheTTL: time.Minute})
	svc.now = fixedNow

	first, err := svc.Overview(context.Background(), models.StatsFilter{Event: "Taller de Normas APA"})
	require.NoError(t, err)

	second, err := svc.Overview(context.Background(), models.StatsFilter{Event: "Taller de Normas APA"})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.totalsCalls)
	assert.Equal(t, first.Totals, second.Totals)

	// A different filter combination is its own cache entry.
	_, err = svc.Overview(context.Background(), models.StatsFilter{Program: "Derecho"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.totalsCalls)
}

package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/storage"
)

type reportRepoStub struct {
	mu   sync.Mutex
	jobs map[string]models.ReportJob
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: make(map[string]models.ReportJob)}
}

func (s *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *reportRepoStub) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &job, nil
}

func (s *reportRepoStub) UpdateProgress(ctx context.Context, id string, status models.ReportJobStatus, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[id]
	job.Status = status
	job.Progress = progress
	s.jobs[id] = job
	return nil
}

func (s *reportRepoStub) MarkCompleted(ctx context.Context, id, resultURL string, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[id]
	job.Status = models.ReportJobCompleted
	job.Progress = 100
	job.ResultURL = &resultURL
	s.jobs[id] = job
	return nil
}

func (s *reportRepoStub) MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[id]
	job.Status = models.ReportJobFailed
	job.ErrorMessage = &message
	s.jobs[id] = job
	return nil
}

type reportAttendanceListStub struct {
	rows []models.Attendance
	err  error

	mu        sync.Mutex
	lastQuery models.AttendanceQuery
}

func (s *reportAttendanceListStub) List(ctx context.Context, q models.AttendanceQuery) ([]models.Attendance, error) {
	s.mu.Lock()
	s.lastQuery = q
	s.mu.Unlock()
	return s.rows, s.err
}

type reportStatsStub struct{}

func (s *reportStatsStub) Totals(ctx context.Context, f models.StatsFilter, windowStartYear int) (*models.StatsTotals, error) {
	return &models.StatsTotals{Attendances: 42}, nil
}

func (s *reportStatsStub) ByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error) {
	return []models.CountItem{{Label: "Taller de Normas APA", Count: 42}}, nil
}

func newReportService(t *testing.T, repo *reportRepoStub, attendances *reportAttendanceListStub) *ReportService {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSigner("test-secret", time.Hour)

	return NewReportService(repo, attendances, &reportStatsStub{}, store, signer, nil, nil, ReportOptions{
		WorkerConcurrency: 1,
		WindowYears:       5,
		DownloadTTL:       time.Hour,
	})
}

func waitForTerminal(t *testing.T, repo *reportRepoStub, id string) models.ReportJob {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("report %s never finished", id)
		case <-time.After(10 * time.Millisecond):
		}

		job, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		if job.Status == models.ReportJobCompleted || job.Status == models.ReportJobFailed {
			return *job
		}
	}
}

func TestReportSummaryLifecycle(t *testing.T) {
	repo := newReportRepoStub()
	svc := newReportService(t, repo, &reportAttendanceListStub{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, 0)
	defer svc.Stop()

	job, err := svc.Enqueue(ctx, "bibliotecaria", models.CreateReportRequest{
		Type:   models.ReportTypeSummary,
		Format: models.ReportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportJobQueued, job.Status)

	done := waitForTerminal(t, repo, job.ID)
	require.Equal(t, models.ReportJobCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)
	require.NotNil(t, done.ResultURL)
	require.True(t, strings.HasPrefix(*done.ResultURL, "/reports/download/"))

	token := strings.TrimPrefix(*done.ResultURL, "/reports/download/")
	file, relPath, err := svc.Download(ctx, token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "reports/"+job.ID+".csv", relPath)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Taller de Normas APA")
	assert.Contains(t, string(content), "TOTAL")
	assert.Contains(t, string(content), "42")
}

func TestReportAttendanceAppliesFilters(t *testing.T) {
	repo := newReportRepoStub()
	attendances := &reportAttendanceListStub{rows: []models.Attendance{{
		EventName:       "Taller de Normas APA",
		AttendeeID:      "1090123456",
		AttendeeName:    "Ana Gómez",
		AttendeeProgram: "Derecho",
		EventDate:       "2026-03-10",
	}}}
	svc := newReportService(t, repo, attendances)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, 0)
	defer svc.Stop()

	job, err := svc.Enqueue(ctx, "bibliotecaria", models.CreateReportRequest{
		Type:   models.ReportTypeAttendance,
		Format: models.ReportFormatPDF,
		Filters: models.StatsFilter{
			Event:   "Taller de Normas APA",
			Program: "Derecho",
		},
	})
	require.NoError(t, err)

	done := waitForTerminal(t, repo, job.ID)
	require.Equal(t, models.ReportJobCompleted, done.Status)
	require.NotNil(t, done.ResultURL)

	attendances.mu.Lock()
	query := attendances.lastQuery
	attendances.mu.Unlock()
	assert.Equal(t, "Taller de Normas APA", query.ColumnFilters["event_name"])
	assert.Equal(t, "Derecho", query.ColumnFilters["attendee_program"])
	// No explicit dates: the trailing window supplies the lower bound.
	assert.True(t, strings.HasSuffix(query.DateFrom, "-01-01"))

	token := strings.TrimPrefix(*done.ResultURL, "/reports/download/")
	file, relPath, err := svc.Download(ctx, token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, "reports/"+job.ID+".pdf", relPath)
	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestReportEnqueueRejectsUnknownType(t *testing.T) {
	repo := newReportRepoStub()
	svc := newReportService(t, repo, &reportAttendanceListStub{})

	_, err := svc.Enqueue(context.Background(), "bibliotecaria", models.CreateReportRequest{
		Type:   "inventario",
		Format: models.ReportFormatCSV,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.jobs)
}

func TestReportDownloadRejectsTamperedToken(t *testing.T) {
	repo := newReportRepoStub()
	svc := newReportService(t, repo, &reportAttendanceListStub{})

	_, _, err := svc.Download(context.Background(), "not-a-real-token")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

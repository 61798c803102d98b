package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	appErrors "github.com/biblioteca-unival/capacitaciones-api/pkg/errors"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/export"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/jobs"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/storage"
)

type reportRepository interface {
	Create(ctx context.Context, job *models.ReportJob) error
	FindByID(ctx context.Context, id string) (*models.ReportJob, error)
	UpdateProgress(ctx context.Context, id string, status models.ReportJobStatus, progress int) error
	MarkCompleted(ctx context.Context, id, resultURL string, finishedAt time.Time) error
	MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error
}

type reportAttendanceRepository interface {
	List(ctx context.Context, q models.AttendanceQuery) ([]models.Attendance, error)
}

type reportStatsRepository interface {
	Totals(ctx context.Context, f models.StatsFilter, windowStartYear int) (*models.StatsTotals, error)
	ByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error)
}

// ReportService generates statistics reports asynchronously: jobs are
// persisted, processed by the worker queue, written to local storage and
// served through HMAC-signed download links.
type ReportService struct {
	repo        reportRepository
	attendances reportAttendanceRepository
	stats       reportStatsRepository
	store       *storage.LocalStorage
	signer      *storage.Signer
	validator   *validator.Validate
	logger      *zap.Logger

	queue       *jobs.Queue
	windowYears int
	downloadTTL time.Duration
}

// ReportOptions wires the worker pool and retention knobs.
type ReportOptions struct {
	WorkerConcurrency int
	WorkerRetries     int
	WindowYears       int
	DownloadTTL       time.Duration
}

func NewReportService(repo reportRepository, attendances reportAttendanceRepository, stats reportStatsRepository,
	store *storage.LocalStorage, signer *storage.Signer, validate *validator.Validate, logger *zap.Logger,
	opts ReportOptions) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.WindowYears <= 0 {
		opts.WindowYears = 5
	}
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = 24 * time.Hour
	}

	s := &ReportService{
		repo:        repo,
		attendances: attendances,
		stats:       stats,
		store:       store,
		signer:      signer,
		validator:   validate,
		logger:      logger,
		windowYears: opts.WindowYears,
		downloadTTL: opts.DownloadTTL,
	}

	s.queue = jobs.NewQueue("reports", s.process, jobs.Options{
		Workers:    opts.WorkerConcurrency,
		MaxRetries: opts.WorkerRetries,
		Logger:     logger,
	})

	return s
}

// Start launches the worker pool and the storage cleanup loop.
func (s *ReportService) Start(ctx context.Context, cleanupInterval time.Duration) {
	s.queue.Start(ctx)

	if cleanupInterval > 0 {
		go s.cleanupLoop(ctx, cleanupInterval)
	}
}

// Stop drains the worker pool.
func (s *ReportService) Stop() {
	s.queue.Stop()
}

// Enqueue validates and persists a job, then hands it to the workers.
func (s *ReportService) Enqueue(ctx context.Context, createdBy string, req models.CreateReportRequest) (*models.ReportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"tipo de reporte o formato no válido")
	}

	params, err := json.Marshal(models.ReportParams{Type: req.Type, Format: req.Format, Filters: req.Filters})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode report params")
	}

	job := &models.ReportJob{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Params:    string(params),
		Status:    models.ReportJobQueued,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist report job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: job.Type}); err != nil {
		now := time.Now().UTC()
		_ = s.repo.MarkFailed(ctx, job.ID, "queue unavailable", now)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return job, nil
}

// Status returns a job visible to its creator.
func (s *ReportService) Status(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "el reporte no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report job")
	}

	return job, nil
}

// Download validates a signed token and opens the stored file.
func (s *ReportService) Download(ctx context.Context, token string) (*os.File, string, error) {
	jobID, relPath, _, err := s.signer.Verify(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, "", appErrors.Clone(appErrors.ErrForbidden, "el enlace de descarga ha expirado")
		}
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "enlace de descarga no válido")
	}

	if _, err := s.repo.FindByID(ctx, jobID); err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "el reporte no existe")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "el archivo del reporte ya no está disponible")
	}

	return file, relPath, nil
}

// process is the queue handler: it renders the report and finishes the job
// either way.
func (s *ReportService) process(ctx context.Context, job jobs.Job) error {
	stored, err := s.repo.FindByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load report job %s: %w", job.ID, err)
	}

	var params models.ReportParams
	if err := json.Unmarshal([]byte(stored.Params), &params); err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, "parámetros de reporte corruptos", time.Now().UTC())
		return nil
	}

	_ = s.repo.UpdateProgress(ctx, job.ID, models.ReportJobRunning, 10)

	dataset, err := s.buildDataset(ctx, params)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error(), time.Now().UTC())
		return err
	}

	_ = s.repo.UpdateProgress(ctx, job.ID, models.ReportJobRunning, 60)

	payload, ext, err := s.render(dataset, params.Format)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, err.Error(), time.Now().UTC())
		return err
	}

	relPath := fmt.Sprintf("reports/%s.%s", job.ID, ext)
	if _, err := s.store.Save(relPath, payload); err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, "no se pudo guardar el archivo", time.Now().UTC())
		return err
	}

	token, _, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, "no se pudo firmar el enlace", time.Now().UTC())
		return err
	}

	resultURL := "/reports/download/" + token
	if err := s.repo.MarkCompleted(ctx, job.ID, resultURL, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info("report generated",
		zap.String("job_id", job.ID),
		zap.String("type", params.Type),
		zap.String("format", params.Format),
	)

	return nil
}

func (s *ReportService) buildDataset(ctx context.Context, params models.ReportParams) (export.Dataset, error) {
	windowStart := 0
	if params.Filters.DateFrom == "" && params.Filters.DateTo == "" {
		windowStart = WindowStartYear(time.Now(), s.windowYears)
	}

	switch params.Type {
	case models.ReportTypeAttendance:
		query := models.AttendanceQuery{
			ColumnFilters: map[string]string{},
			DateFrom:      params.Filters.DateFrom,
			DateTo:        params.Filters.DateTo,
			SortColumn:    "event_date",
			SortDesc:      true,
		}
		if params.Filters.Event != "" {
			query.ColumnFilters["event_name"] = params.Filters.Event
		}
		if params.Filters.Program != "" {
			query.ColumnFilters["attendee_program"] = params.Filters.Program
		}
		if query.DateFrom == "" && query.DateTo == "" {
			query.DateFrom = strconv.Itoa(windowStart) + "-01-01"
		}

		rows, err := s.attendances.List(ctx, query)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("list attendances for report: %w", err)
		}
		return attendanceDataset(rows), nil

	case models.ReportTypeSummary:
		totals, err := s.stats.Totals(ctx, params.Filters, windowStart)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("report totals: %w", err)
		}
		byEvent, err := s.stats.ByEvent(ctx, params.Filters, windowStart, 0)
		if err != nil {
			return export.Dataset{}, fmt.Errorf("report event breakdown: %w", err)
		}

		dataset := export.Dataset{
			Title:   "Resumen de Capacitaciones",
			Headers: []string{"Evento", "Asistencias"},
		}
		for _, item := range byEvent {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Evento":      item.Label,
				"Asistencias": strconv.Itoa(item.Count),
			})
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Evento":      "TOTAL",
			"Asistencias": strconv.Itoa(totals.Attendances),
		})
		return dataset, nil

	default:
		return export.Dataset{}, fmt.Errorf("unknown report type %q", params.Type)
	}
}

func (s *ReportService) render(dataset export.Dataset, format string) ([]byte, string, error) {
	switch format {
	case models.ReportFormatPDF:
		payload, err := export.NewPDFExporter().Render(dataset)
		return payload, "pdf", err
	default:
		payload, err := export.NewCSVExporter().Render(dataset)
		return payload, "csv", err
	}
}

func (s *ReportService) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.downloadTTL)
			if err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("expired reports removed", zap.Int("count", len(deleted)))
			}
		}
	}
}

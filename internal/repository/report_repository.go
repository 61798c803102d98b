package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// ReportRepository persists asynchronous report jobs.
type ReportRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewReportRepository(db *sqlx.DB, dialect database.Dialect) *ReportRepository {
	return &ReportRepository{db: db, dialect: dialect}
}

// Create inserts a queued job.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	query := r.dialect.Rebind(`INSERT INTO report_jobs (id, type, params, status, progress, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`)

	if _, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Params, job.Status, job.Progress, job.CreatedBy); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}

	return nil
}

// FindByID returns one job, or sql.ErrNoRows untouched.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	query := r.dialect.Rebind(`SELECT id, type, params, status, progress, result_url,
		created_by, created_at, finished_at, error_message
		FROM report_jobs WHERE id = ? LIMIT 1`)

	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}

	return &job, nil
}

// UpdateProgress moves a job through its lifecycle.
func (r *ReportRepository) UpdateProgress(ctx context.Context, id string, status models.ReportJobStatus, progress int) error {
	query := r.dialect.Rebind(`UPDATE report_jobs SET status = ?, progress = ? WHERE id = ?`)

	if _, err := r.db.ExecContext(ctx, query, status, progress, id); err != nil {
		return fmt.Errorf("update report job progress: %w", err)
	}

	return nil
}

// MarkCompleted finishes a job with its signed download URL.
func (r *ReportRepository) MarkCompleted(ctx context.Context, id, resultURL string, finishedAt time.Time) error {
	query := r.dialect.Rebind(`UPDATE report_jobs
		SET status = ?, progress = 100, result_url = ?, finished_at = ?
		WHERE id = ?`)

	if _, err := r.db.ExecContext(ctx, query, models.ReportJobCompleted, resultURL, finishedAt, id); err != nil {
		return fmt.Errorf("complete report job: %w", err)
	}

	return nil
}

// MarkFailed finishes a job with its error message.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, message string, finishedAt time.Time) error {
	query := r.dialect.Rebind(`UPDATE report_jobs
		SET status = ?, error_message = ?, finished_at = ?
		WHERE id = ?`)

	if _, err := r.db.ExecContext(ctx, query, models.ReportJobFailed, message, finishedAt, id); err != nil {
		return fmt.Errorf("fail report job: %w", err)
	}

	return nil
}

package models

import "time"

// ReportJobStatus tracks an asynchronous report through its lifecycle.
type ReportJobStatus string

const (
	ReportJobQueued    ReportJobStatus = "queued"
	ReportJobRunning   ReportJobStatus = "running"
	ReportJobCompleted ReportJobStatus = "completed"
	ReportJobFailed    ReportJobStatus = "failed"
)

// Report types and output formats.
const (
	ReportTypeAttendance = "attendance"
	ReportTypeSummary    = "summary"

	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

// ReportJob is one queued report generation request.
type ReportJob struct {
	ID           string          `db:"id" json:"id"`
	Type         string          `db:"type" json:"type"`
	Params       string          `db:"params" json:"-"`
	Status       ReportJobStatus `db:"status" json:"status"`
	Progress     int             `db:"progress" json:"progress"`
	ResultURL    *string         `db:"result_url" json:"result_url,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time      `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
}

// CreateReportRequest enqueues a report generation job.
type CreateReportRequest struct {
	Type    string      `json:"type" validate:"required,oneof=attendance summary"`
	Format  string      `json:"format" validate:"required,oneof=csv pdf"`
	Filters StatsFilter `json:"filters"`
}

// ReportParams is the JSON payload persisted with the job.
type ReportParams struct {
	Type    string      `json:"type"`
	Format  string      `json:"format"`
	Filters StatsFilter `json:"filters"`
}

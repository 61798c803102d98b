package models

import "time"

// Evaluation is a post-event satisfaction survey tied to one attendance.
// The average column is computed by the database.
type Evaluation struct {
	ID               int64     `db:"id" json:"id"`
	AttendanceID     int64     `db:"attendance_id" json:"attendance_id"`
	ContentQuality   int       `db:"content_quality" json:"content_quality"`
	Methodology      int       `db:"methodology" json:"methodology"`
	ClearLanguage    int       `db:"clear_language" json:"clear_language"`
	GroupManagement  int       `db:"group_management" json:"group_management"`
	QuestionHandling int       `db:"question_handling" json:"question_handling"`
	Comments         *string   `db:"comments" json:"comments,omitempty"`
	Average          float64   `db:"average" json:"average"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// CreateEvaluationRequest carries the five 1..5 ratings.
type CreateEvaluationRequest struct {
	AttendanceID     int64  `json:"attendance_id" validate:"required,gt=0"`
	ContentQuality   int    `json:"content_quality" validate:"required,min=1,max=5"`
	Methodology      int    `json:"methodology" validate:"required,min=1,max=5"`
	ClearLanguage    int    `json:"clear_language" validate:"required,min=1,max=5"`
	GroupManagement  int    `json:"group_management" validate:"required,min=1,max=5"`
	QuestionHandling int    `json:"question_handling" validate:"required,min=1,max=5"`
	Comments         string `json:"comments" validate:"max=2000"`
}

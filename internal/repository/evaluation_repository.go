package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// EvaluationRepository provides database access for event evaluations.
type EvaluationRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewEvaluationRepository(db *sqlx.DB, dialect database.Dialect) *EvaluationRepository {
	return &EvaluationRepository{db: db, dialect: dialect}
}

// Insert stores an evaluation and returns its id. The UNIQUE constraint on
// attendance_id surfaces as a driver error for the service to translate.
// The average column is computed by the database and not written here.
func (r *EvaluationRepository) Insert(ctx context.Context, e *models.Evaluation) (int64, error) {
	const base = `INSERT INTO evaluations (attendance_id, content_quality,
		methodology, clear_language, group_management, question_handling, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		e.AttendanceID, e.ContentQuality, e.Methodology,
		e.ClearLanguage, e.GroupManagement, e.QuestionHandling, e.Comments,
	}

	if r.dialect.SupportsReturning() {
		var id int64
		if err := r.db.GetContext(ctx, &id, r.dialect.Rebind(base+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(base), args...)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ExistsForAttendance reports whether the attendance already has an
// evaluation.
func (r *EvaluationRepository) ExistsForAttendance(ctx context.Context, attendanceID int64) (bool, error) {
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM evaluations WHERE attendance_id = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, attendanceID); err != nil {
		return false, fmt.Errorf("check evaluation exists: %w", err)
	}

	return count > 0, nil
}

// FindByID returns one evaluation including the stored average.
func (r *EvaluationRepository) FindByID(ctx context.Context, id int64) (*models.Evaluation, error) {
	query := r.dialect.Rebind(`SELECT id, attendance_id, content_quality, methodology,
		clear_language, group_management, question_handling, comments, average, created_at
		FROM evaluations WHERE id = ? LIMIT 1`)

	var e models.Evaluation
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, err
	}

	return &e, nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/normalize"
)

const attendanceColumns = `id, event_name, instructor, teacher_name, teacher_program,
	attendee_id, attendee_name, attendee_program, modality, attendee_type,
	campus, event_date, created_at`

// AttendanceRepository provides database access for attendance records.
type AttendanceRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewAttendanceRepository(db *sqlx.DB, dialect database.Dialect) *AttendanceRepository {
	return &AttendanceRepository{db: db, dialect: dialect}
}

// Insert stores a new attendance and returns its id. Unique index
// violations surface as driver errors for the service to translate.
func (r *AttendanceRepository) Insert(ctx context.Context, a *models.Attendance) (int64, error) {
	const base = `INSERT INTO attendances (event_name, instructor, teacher_name,
		teacher_program, attendee_id, attendee_name, attendee_program,
		modality, attendee_type, campus, event_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		a.EventName, a.Instructor, a.TeacherName, a.TeacherProgram,
		a.AttendeeID, a.AttendeeName, a.AttendeeProgram,
		a.Modality, a.AttendeeType, a.Campus, a.EventDate,
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

// Exists reports whether an attendance with the same natural key is already
// stored.
func (r *AttendanceRepository) Exists(ctx context.Context, attendeeID, eventName, eventDate string) (bool, error) {
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM attendances
		WHERE attendee_id = ? AND event_name = ? AND event_date = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, attendeeID, eventName, eventDate); err != nil {
		return false, fmt.Errorf("check duplicate attendance: %w", err)
	}

	return count > 0, nil
}

// FindByID returns one attendance, or sql.ErrNoRows untouched.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	query := r.dialect.Rebind(`SELECT ` + attendanceColumns + ` FROM attendances WHERE id = ? LIMIT 1`)

	var a models.Attendance
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}

	return &a, nil
}

// CountAll returns the unfiltered attendance count.
func (r *AttendanceRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM attendances`); err != nil {
		return 0, fmt.Errorf("count attendances: %w", err)
	}

	return count, nil
}

// CountFiltered returns the attendance count matching the query filters.
func (r *AttendanceRepository) CountFiltered(ctx context.Context, q models.AttendanceQuery) (int, error) {
	where, args := r.buildWhere(q)

	var count int
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM attendances` + where)
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count filtered attendances: %w", err)
	}

	return count, nil
}

// List returns attendance rows matching the query, ordered and paged.
func (r *AttendanceRepository) List(ctx context.Context, q models.AttendanceQuery) ([]models.Attendance, error) {
	where, args := r.buildWhere(q)

	sortColumn := q.SortColumn
	if !isGridColumn(sortColumn) {
		sortColumn = "event_date"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM attendances%s ORDER BY %s %s, id %s`,
		attendanceColumns, where, sortColumn, direction, direction)

	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows := []models.Attendance{}
	if err := r.db.SelectContext(ctx, &rows, r.dialect.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}

	return rows, nil
}

// Summary returns the panel card counts in one round trip.
func (r *AttendanceRepository) Summary(ctx context.Context) (*models.AttendanceSummary, error) {
	const query = `SELECT
		COUNT(*) AS total_records,
		COUNT(DISTINCT event_name) AS distinct_events,
		COUNT(DISTINCT attendee_program) AS distinct_programs,
		COUNT(DISTINCT campus) AS distinct_campuses
	FROM attendances`

	var s struct {
		TotalRecords     int `db:"total_records"`
		DistinctEvents   int `db:"distinct_events"`
		DistinctPrograms int `db:"distinct_programs"`
		DistinctCampuses int `db:"distinct_campuses"`
	}
	if err := r.db.GetContext(ctx, &s, query); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}

	return &models.AttendanceSummary{
		TotalRecords:     s.TotalRecords,
		DistinctEvents:   s.DistinctEvents,
		DistinctPrograms: s.DistinctPrograms,
		DistinctCampuses: s.DistinctCampuses,
	}, nil
}

// CountOlderThan counts rows whose event year precedes cutoffYear.
func (r *AttendanceRepository) CountOlderThan(ctx context.Context, cutoffYear int) (int, error) {
	query := r.dialect.Rebind(fmt.Sprintf(
		`SELECT COUNT(*) FROM attendances WHERE %s < ?`, r.dialect.YearExpr("event_date")))

	var count int
	if err := r.db.GetContext(ctx, &count, query, cutoffYear); err != nil {
		return 0, fmt.Errorf("count old attendances: %w", err)
	}

	return count, nil
}

// DeleteOlderThan removes rows whose event year precedes cutoffYear and
// returns how many went.
func (r *AttendanceRepository) DeleteOlderThan(ctx context.Context, cutoffYear int) (int64, error) {
	query := r.dialect.Rebind(fmt.Sprintf(
		`DELETE FROM attendances WHERE %s < ?`, r.dialect.YearExpr("event_date")))

	res, err := r.db.ExecContext(ctx, query, cutoffYear)
	if err != nil {
		return 0, fmt.Errorf("purge old attendances: %w", err)
	}

	return res.RowsAffected()
}

// buildWhere assembles the filter clause shared by List and CountFiltered.
// Search terms are folded in Go and matched against folded columns, making
// the comparison accent and case insensitive on both sides.
func (r *AttendanceRepository) buildWhere(q models.AttendanceQuery) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if term := strings.TrimSpace(q.Search); term != "" {
		pattern := "%" + normalize.Fold(term) + "%"
		parts := make([]string, len(models.GridColumns))
		for i, col := range models.GridColumns {
			parts[i] = r.dialect.FoldExpr(col) + " LIKE ?"
			args = append(args, pattern)
		}
		conditions = append(conditions, "("+strings.Join(parts, " OR ")+")")
	}

	for _, col := range models.GridColumns {
		term, ok := q.ColumnFilters[col]
		if !ok || strings.TrimSpace(term) == "" {
			continue
		}
		conditions = append(conditions, r.dialect.FoldExpr(col)+" LIKE ?")
		args = append(args, "%"+normalize.Fold(strings.TrimSpace(term))+"%")
	}

	if q.DateFrom != "" {
		conditions = append(conditions, "event_date >= ?")
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		conditions = append(conditions, "event_date <= ?")
		args = append(args, q.DateTo)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func isGridColumn(name string) bool {
	for _, col := range models.GridColumns {
		if col == name {
			return true
		}
	}

	return false
}

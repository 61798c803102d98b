package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// StatsRepository runs the aggregate queries behind the dashboard. Every
// method shares one filter clause so the headline totals and the breakdowns
// always describe the same row set.
type StatsRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewStatsRepository(db *sqlx.DB, dialect database.Dialect) *StatsRepository {
	return &StatsRepository{db: db, dialect: dialect}
}

// filterClause builds the shared WHERE fragment. When the filter carries no
// explicit date bounds, rows are limited to event years >= windowStartYear;
// windowStartYear <= 0 disables the window.
func (r *StatsRepository) filterClause(f models.StatsFilter, windowStartYear int, prefix string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	col := func(name string) string { return prefix + name }

	if f.Event != "" {
		conditions = append(conditions, col("event_name")+" = ?")
		args = append(args, f.Event)
	}
	if f.Program != "" {
		conditions = append(conditions, col("attendee_program")+" = ?")
		args = append(args, f.Program)
	}

	switch {
	case f.DateFrom != "" || f.DateTo != "":
		if f.DateFrom != "" {
			conditions = append(conditions, col("event_date")+" >= ?")
			args = append(args, f.DateFrom)
		}
		if f.DateTo != "" {
			conditions = append(conditions, col("event_date")+" <= ?")
			args = append(args, f.DateTo)
		}
	case windowStartYear > 0:
		conditions = append(conditions, r.dialect.YearExpr(col("event_date"))+" >= ?")
		args = append(args, windowStartYear)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Totals returns the headline counts for the filtered row set.
func (r *StatsRepository) Totals(ctx context.Context, f models.StatsFilter, windowStartYear int) (*models.StatsTotals, error) {
	where, args := r.filterClause(f, windowStartYear, "")

	query := r.dialect.Rebind(`SELECT
		COUNT(*) AS attendances,
		COUNT(DISTINCT event_name) AS distinct_events,
		COUNT(DISTINCT attendee_program) AS distinct_programs
	FROM attendances` + where)

	var row struct {
		Attendances      int `db:"attendances"`
		DistinctEvents   int `db:"distinct_events"`
		DistinctPrograms int `db:"distinct_programs"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("stats totals: %w", err)
	}

	return &models.StatsTotals{
		Attendances:      row.Attendances,
		DistinctEvents:   row.DistinctEvents,
		DistinctPrograms: row.DistinctPrograms,
	}, nil
}

// AverageEvaluation returns the mean evaluation score over the filtered
// attendances, zero when none exist.
func (r *StatsRepository) AverageEvaluation(ctx context.Context, f models.StatsFilter, windowStartYear int) (float64, error) {
	where, args := r.filterClause(f, windowStartYear, "a.")

	query := r.dialect.Rebind(`SELECT COALESCE(AVG(e.average), 0)
		FROM evaluations e
		JOIN attendances a ON a.id = e.attendance_id` + where)

	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, args...); err != nil {
		return 0, fmt.Errorf("stats average evaluation: %w", err)
	}

	return avg, nil
}

// ByEvent returns the top event counts, largest first.
func (r *StatsRepository) ByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error) {
	where, args := r.filterClause(f, windowStartYear, "")

	query := `SELECT event_name AS label, COUNT(*) AS count
		FROM attendances` + where + `
		GROUP BY event_name ORDER BY count DESC, label ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	items := []models.CountItem{}
	if err := r.db.SelectContext(ctx, &items, r.dialect.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("stats by event: %w", err)
	}

	return items, nil
}

// ByProgramModality returns counts per "program - modality" pair.
func (r *StatsRepository) ByProgramModality(ctx context.Context, f models.StatsFilter, windowStartYear, limit int) ([]models.CountItem, error) {
	where, args := r.filterClause(f, windowStartYear, "")

	query := `SELECT attendee_program || ' - ' || modality AS label, COUNT(*) AS count
		FROM attendances` + where + `
		GROUP BY attendee_program, modality ORDER BY count DESC, label ASC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	items := []models.CountItem{}
	if err := r.db.SelectContext(ctx, &items, r.dialect.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("stats by program and modality: %w", err)
	}

	return items, nil
}

// CrossTab returns the full event × program matrix.
func (r *StatsRepository) CrossTab(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CrossTabCell, error) {
	where, args := r.filterClause(f, windowStartYear, "")

	query := r.dialect.Rebind(`SELECT event_name AS event, attendee_program AS program, COUNT(*) AS count
		FROM attendances` + where + `
		GROUP BY event_name, attendee_program
		ORDER BY event_name ASC, count DESC`)

	cells := []models.CrossTabCell{}
	if err := r.db.SelectContext(ctx, &cells, query, args...); err != nil {
		return nil, fmt.Errorf("stats cross tab: %w", err)
	}

	return cells, nil
}

// MonthlyTrend returns attendance counts per YYYY-MM bucket in ascending
// order.
func (r *StatsRepository) MonthlyTrend(ctx context.Context, f models.StatsFilter, windowStartYear int) ([]models.CountItem, error) {
	where, args := r.filterClause(f, windowStartYear, "")
	month := r.dialect.MonthExpr("event_date")

	query := r.dialect.Rebind(fmt.Sprintf(`SELECT %s AS label, COUNT(*) AS count
		FROM attendances%s
		GROUP BY %s ORDER BY label ASC`, month, where, month))

	items := []models.CountItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("stats monthly trend: %w", err)
	}

	return items, nil
}

// TopProgramsByEvent ranks programs inside each event and keeps the top
// perEvent of every partition.
func (r *StatsRepository) TopProgramsByEvent(ctx context.Context, f models.StatsFilter, windowStartYear, perEvent int) ([]models.EventProgramRank, error) {
	where, args := r.filterClause(f, windowStartYear, "")

	query := r.dialect.Rebind(fmt.Sprintf(`SELECT event, program, count, rank FROM (
		SELECT event_name AS event, attendee_program AS program, COUNT(*) AS count,
			ROW_NUMBER() OVER (
				PARTITION BY event_name ORDER BY COUNT(*) DESC, attendee_program ASC
			) AS rank
		FROM attendances%s
		GROUP BY event_name, attendee_program
	) ranked WHERE rank <= ? ORDER BY event ASC, rank ASC`, where))

	args = append(args, perEvent)

	rows := []models.EventProgramRank{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("stats top programs by event: %w", err)
	}

	return rows, nil
}

// Distribution groups the filtered rows by an allowed column.
func (r *StatsRepository) Distribution(ctx context.Context, f models.StatsFilter, windowStartYear int, column string) ([]models.CountItem, error) {
	if column != "attendee_type" && column != "modality" {
		return nil, fmt.Errorf("unsupported distribution column %q", column)
	}

	where, args := r.filterClause(f, windowStartYear, "")

	query := r.dialect.Rebind(fmt.Sprintf(`SELECT %s AS label, COUNT(*) AS count
		FROM attendances%s
		GROUP BY %s ORDER BY count DESC, label ASC`, column, where, column))

	items := []models.CountItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("stats distribution by %s: %w", column, err)
	}

	return items, nil
}

// FilterOptions returns the distinct values feeding the dashboard filter
// dropdowns, unwindowed so past years stay selectable.
func (r *StatsRepository) FilterOptions(ctx context.Context, column string) ([]string, error) {
	if column != "event_name" && column != "attendee_program" {
		return nil, fmt.Errorf("unsupported filter column %q", column)
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM attendances ORDER BY %s ASC`, column, column)

	values := []string{}
	if err := r.db.SelectContext(ctx, &values, query); err != nil {
		return nil, fmt.Errorf("stats filter options for %s: %w", column, err)
	}

	return values, nil
}

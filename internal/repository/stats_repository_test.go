package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

func TestStatsTotalsAppliesWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, database.DialectSQLite)

	rows := sqlmock.NewRows([]string{"attendances", "distinct_events", "distinct_programs"}).
		AddRow(200, 12, 18)
	mock.ExpectQuery(`CAST\(SUBSTR\(event_date, 1, 4\) AS INTEGER\) >= \?`).
		WithArgs(2022).
		WillReturnRows(rows)

	totals, err := repo.Totals(context.Background(), models.StatsFilter{}, 2022)
	require.NoError(t, err)
	assert.Equal(t, 200, totals.Attendances)
	assert.Equal(t, 12, totals.DistinctEvents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsTotalsExplicitDatesSkipWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, database.DialectSQLite)

	rows := sqlmock.NewRows([]string{"attendances", "distinct_events", "distinct_programs"}).
		AddRow(5, 2, 3)
	mock.ExpectQuery(`event_date >= \? AND event_date <= \?`).
		WithArgs("2015-01-01", "2015-12-31").
		WillReturnRows(rows)

	totals, err := repo.Totals(context.Background(), models.StatsFilter{
		DateFrom: "2015-01-01",
		DateTo:   "2015-12-31",
	}, 2022)
	require.NoError(t, err)
	assert.Equal(t, 5, totals.Attendances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsTopProgramsByEvent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, database.DialectSQLite)

	rows := sqlmock.NewRows([]string{"event", "program", "count", "rank"}).
		AddRow("Taller APA", "Derecho", 30, 1).
		AddRow("Taller APA", "Ingeniería", 12, 2)
	mock.ExpectQuery(`ROW_NUMBER\(\) OVER`).
		WithArgs(2022, 5).
		WillReturnRows(rows)

	ranks, err := repo.TopProgramsByEvent(context.Background(), models.StatsFilter{}, 2022, 5)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, 1, ranks[0].Rank)
	assert.Equal(t, "Derecho", ranks[0].Program)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsAverageEvaluation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, database.DialectSQLite)

	mock.ExpectQuery(`COALESCE\(AVG\(e\.average\), 0\)`).
		WithArgs("Taller APA", 2022).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.4))

	avg, err := repo.AverageEvaluation(context.Background(), models.StatsFilter{Event: "Taller APA"}, 2022)
	require.NoError(t, err)
	assert.InDelta(t, 4.4, avg, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDistributionRejectsUnknownColumn(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewStatsRepository(db, database.DialectSQLite)

	_, err := repo.Distribution(context.Background(), models.StatsFilter{}, 0, "attendee_name")
	assert.Error(t, err)
}

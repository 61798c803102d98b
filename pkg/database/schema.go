package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BootstrapResult reports what the startup migration did.
type BootstrapResult struct {
	// DuplicatesRemoved counts attendance rows deleted while preparing the
	// unique index. The caller surfaces it as a one-shot panel notice.
	DuplicatesRemoved int64
}

// Bootstrap creates the schema if needed, seeds the modality catalog,
// removes duplicate attendance rows keeping the lowest id, and installs the
// unique attendance index. It is idempotent.
func Bootstrap(db *sqlx.DB, dialect Dialect) (BootstrapResult, error) {
	var result BootstrapResult

	for _, ddl := range tableDDL(dialect) {
		if _, err := db.Exec(ddl); err != nil {
			return result, fmt.Errorf("create schema: %w", err)
		}
	}

	if err := seedModalities(db, dialect); err != nil {
		return result, fmt.Errorf("seed modalities: %w", err)
	}

	removed, err := dedupeAttendances(db)
	if err != nil {
		return result, fmt.Errorf("dedupe attendances: %w", err)
	}
	result.DuplicatesRemoved = removed

	if _, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendances_unique
		ON attendances (attendee_id, event_name, event_date)`); err != nil {
		return result, fmt.Errorf("create unique index: %w", err)
	}

	return result, nil
}

func tableDDL(dialect Dialect) []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	now := "DATETIME DEFAULT CURRENT_TIMESTAMP"
	ts := "DATETIME"
	if dialect == DialectPostgres {
		serial = "SERIAL PRIMARY KEY"
		now = "TIMESTAMPTZ DEFAULT NOW()"
		ts = "TIMESTAMPTZ"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at %s
		)`, serial, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS programs (
			id %s,
			name TEXT NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at %s,
			updated_at %s
		)`, serial, now, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS modalities (
			id %s,
			name TEXT NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at %s,
			updated_at %s
		)`, serial, now, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS attendances (
			id %s,
			event_name TEXT NOT NULL,
			instructor TEXT NOT NULL,
			teacher_name TEXT NOT NULL,
			teacher_program TEXT NOT NULL,
			attendee_id TEXT NOT NULL,
			attendee_name TEXT NOT NULL,
			attendee_program TEXT NOT NULL,
			modality TEXT NOT NULL,
			attendee_type TEXT NOT NULL,
			campus TEXT NOT NULL,
			event_date TEXT NOT NULL,
			created_at %s
		)`, serial, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS evaluations (
			id %s,
			attendance_id INTEGER NOT NULL UNIQUE REFERENCES attendances(id),
			content_quality INTEGER NOT NULL CHECK (content_quality BETWEEN 1 AND 5),
			methodology INTEGER NOT NULL CHECK (methodology BETWEEN 1 AND 5),
			clear_language INTEGER NOT NULL CHECK (clear_language BETWEEN 1 AND 5),
			group_management INTEGER NOT NULL CHECK (group_management BETWEEN 1 AND 5),
			question_handling INTEGER NOT NULL CHECK (question_handling BETWEEN 1 AND 5),
			comments TEXT,
			average REAL GENERATED ALWAYS AS (
				(content_quality + methodology + clear_language + group_management + question_handling) / 5.0
			) STORED,
			created_at %s
		)`, serial, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS institutional_investments (
			id %s,
			year INTEGER NOT NULL UNIQUE,
			books_amount REAL NOT NULL DEFAULT 0,
			journals_amount REAL NOT NULL DEFAULT 0,
			databases_amount REAL NOT NULL DEFAULT 0,
			total REAL GENERATED ALWAYS AS (
				books_amount + journals_amount + databases_amount
			) STORED,
			notes TEXT,
			created_at %s
		)`, serial, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS program_investments (
			id %s,
			year INTEGER NOT NULL,
			program TEXT NOT NULL,
			book_titles INTEGER NOT NULL DEFAULT 0,
			book_volumes INTEGER NOT NULL DEFAULT 0,
			book_value REAL NOT NULL DEFAULT 0,
			journal_titles INTEGER NOT NULL DEFAULT 0,
			journal_value REAL NOT NULL DEFAULT 0,
			donation_titles INTEGER NOT NULL DEFAULT 0,
			donation_volumes INTEGER NOT NULL DEFAULT 0,
			donation_theses INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at %s,
			UNIQUE (year, program)
		)`, serial, now),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS report_jobs (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'queued',
			progress INTEGER NOT NULL DEFAULT 0,
			result_url TEXT,
			created_by TEXT NOT NULL,
			created_at %s,
			finished_at %s,
			error_message TEXT
		)`, now, ts),
	}
}

func seedModalities(db *sqlx.DB, dialect Dialect) error {
	query := `INSERT OR IGNORE INTO modalities (name) VALUES (?)`
	if dialect == DialectPostgres {
		query = `INSERT INTO modalities (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	}

	for _, name := range []string{"Presencial", "A Distancia", "Virtual"} {
		if _, err := db.Exec(query, name); err != nil {
			return err
		}
	}

	return nil
}

// dedupeAttendances deletes attendance rows sharing (attendee_id,
// event_name, event_date), keeping the earliest id of each group.
func dedupeAttendances(db *sqlx.DB) (int64, error) {
	res, err := db.Exec(`DELETE FROM attendances WHERE id NOT IN (
		SELECT MIN(id) FROM attendances
		GROUP BY attendee_id, event_name, event_date
	)`)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// InvestmentRepository provides database access for the two investment
// registers.
type InvestmentRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewInvestmentRepository(db *sqlx.DB, dialect database.Dialect) *InvestmentRepository {
	return &InvestmentRepository{db: db, dialect: dialect}
}

// ListInstitutional returns yearly library-wide figures, newest first.
func (r *InvestmentRepository) ListInstitutional(ctx context.Context) ([]models.InstitutionalInvestment, error) {
	const query = `SELECT id, year, books_amount, journals_amount, databases_amount,
		total, notes, created_at
		FROM institutional_investments ORDER BY year DESC`

	rows := []models.InstitutionalInvestment{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list institutional investments: %w", err)
	}

	return rows, nil
}

// CreateInstitutional inserts one year's figures. The UNIQUE(year)
// constraint surfaces as a driver error for the service to translate.
func (r *InvestmentRepository) CreateInstitutional(ctx context.Context, inv *models.InstitutionalInvestment) (int64, error) {
	const base = `INSERT INTO institutional_investments
		(year, books_amount, journals_amount, databases_amount, notes)
		VALUES (?, ?, ?, ?, ?)`

	args := []interface{}{inv.Year, inv.BooksAmount, inv.JournalsAmount, inv.DatabasesAmount, inv.Notes}

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

// ListPrograms returns per-program acquisition rows, year DESC then
// program ASC.
func (r *InvestmentRepository) ListPrograms(ctx context.Context) ([]models.ProgramInvestment, error) {
	const query = `SELECT id, year, program, book_titles, book_volumes, book_value,
		journal_titles, journal_value, donation_titles, donation_volumes,
		donation_theses, notes, created_at
		FROM program_investments ORDER BY year DESC, program ASC`

	rows := []models.ProgramInvestment{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list program investments: %w", err)
	}

	return rows, nil
}

// CreateProgram inserts one (year, program) row. The UNIQUE(year, program)
// constraint surfaces as a driver error for the service to translate.
func (r *InvestmentRepository) CreateProgram(ctx context.Context, inv *models.ProgramInvestment) (int64, error) {
	const base = `INSERT INTO program_investments
		(year, program, book_titles, book_volumes, book_value,
		journal_titles, journal_value, donation_titles, donation_volumes,
		donation_theses, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		inv.Year, inv.Program, inv.BookTitles, inv.BookVolumes, inv.BookValue,
		inv.JournalTitles, inv.JournalValue, inv.DonationTitles,
		inv.DonationVolumes, inv.DonationTheses, inv.Notes,
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

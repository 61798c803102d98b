package models

import "time"

// InstitutionalInvestment records the yearly library-wide spend. Total is
// computed by the database.
type InstitutionalInvestment struct {
	ID              int64     `db:"id" json:"id"`
	Year            int       `db:"year" json:"year"`
	BooksAmount     float64   `db:"books_amount" json:"books_amount"`
	JournalsAmount  float64   `db:"journals_amount" json:"journals_amount"`
	DatabasesAmount float64   `db:"databases_amount" json:"databases_amount"`
	Total           float64   `db:"total" json:"total"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateInstitutionalInvestmentRequest carries one year's figures.
type CreateInstitutionalInvestmentRequest struct {
	Year            int     `json:"year" validate:"required,min=1990,max=2100"`
	BooksAmount     float64 `json:"books_amount" validate:"min=0"`
	JournalsAmount  float64 `json:"journals_amount" validate:"min=0"`
	DatabasesAmount float64 `json:"databases_amount" validate:"min=0"`
	Notes           string  `json:"notes" validate:"max=2000"`
}

// ProgramInvestment records per-program acquisitions for one year.
type ProgramInvestment struct {
	ID              int64     `db:"id" json:"id"`
	Year            int       `db:"year" json:"year"`
	Program         string    `db:"program" json:"program"`
	BookTitles      int       `db:"book_titles" json:"book_titles"`
	BookVolumes     int       `db:"book_volumes" json:"book_volumes"`
	BookValue       float64   `db:"book_value" json:"book_value"`
	JournalTitles   int       `db:"journal_titles" json:"journal_titles"`
	JournalValue    float64   `db:"journal_value" json:"journal_value"`
	DonationTitles  int       `db:"donation_titles" json:"donation_titles"`
	DonationVolumes int       `db:"donation_volumes" json:"donation_volumes"`
	DonationTheses  int       `db:"donation_theses" json:"donation_theses"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateProgramInvestmentRequest carries one (year, program) row.
type CreateProgramInvestmentRequest struct {
	Year            int     `json:"year" validate:"required,min=1990,max=2100"`
	Program         string  `json:"program" validate:"required"`
	BookTitles      int     `json:"book_titles" validate:"min=0"`
	BookVolumes     int     `json:"book_volumes" validate:"min=0"`
	BookValue       float64 `json:"book_value" validate:"min=0"`
	JournalTitles   int     `json:"journal_titles" validate:"min=0"`
	JournalValue    float64 `json:"journal_value" validate:"min=0"`
	DonationTitles  int     `json:"donation_titles" validate:"min=0"`
	DonationVolumes int     `json:"donation_volumes" validate:"min=0"`
	DonationTheses  int     `json:"donation_theses" validate:"min=0"`
	Notes           string  `json:"notes" validate:"max=2000"`
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// CatalogRepository manages one of the two catalog tables. The same struct
// serves programs and modalities; refColumns names the attendance columns
// that may reference a catalog entry, blocking its deletion.
type CatalogRepository struct {
	db         *sqlx.DB
	dialect    database.Dialect
	table      string
	refColumns []string
}

// NewProgramRepository manages the academic programs catalog. Programs are
// referenced by both the attendee and the teacher program columns.
func NewProgramRepository(db *sqlx.DB, dialect database.Dialect) *CatalogRepository {
	return &CatalogRepository{
		db:         db,
		dialect:    dialect,
		table:      "programs",
		refColumns: []string{"attendee_program", "teacher_program"},
	}
}

// NewModalityRepository manages the event modality catalog.
func NewModalityRepository(db *sqlx.DB, dialect database.Dialect) *CatalogRepository {
	return &CatalogRepository{
		db:         db,
		dialect:    dialect,
		table:      "modalities",
		refColumns: []string{"modality"},
	}
}

// List returns every catalog row ordered by name.
func (r *CatalogRepository) List(ctx context.Context) ([]models.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id, name, active, created_at, updated_at FROM %s ORDER BY name ASC`, r.table)

	items := []models.CatalogItem{}
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}

	return items, nil
}

// ListActiveNames returns the names of active entries ordered by name,
// feeding the registration form dropdowns.
func (r *CatalogRepository) ListActiveNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s WHERE active = TRUE ORDER BY name ASC`, r.table)

	names := []string{}
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list active %s: %w", r.table, err)
	}

	return names, nil
}

// FindByID returns one entry, or sql.ErrNoRows untouched.
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	query := r.dialect.Rebind(fmt.Sprintf(
		`SELECT id, name, active, created_at, updated_at FROM %s WHERE id = ? LIMIT 1`, r.table))

	var item models.CatalogItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}

	return &item, nil
}

// Create inserts a catalog entry and returns its id. Unique name violations
// surface as driver errors for the service to translate.
func (r *CatalogRepository) Create(ctx context.Context, name string) (int64, error) {
	if r.dialect.SupportsReturning() {
		query := r.dialect.Rebind(fmt.Sprintf(`INSERT INTO %s (name) VALUES (?) RETURNING id`, r.table))
		var id int64
		if err := r.db.GetContext(ctx, &id, query, name); err != nil {
			return 0, err
		}
		return id, nil
	}

	query := r.dialect.Rebind(fmt.Sprintf(`INSERT INTO %s (name) VALUES (?)`, r.table))
	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// Toggle flips the active flag and bumps updated_at. Returns the number of
// rows touched so the caller can 404 on a missing id.
func (r *CatalogRepository) Toggle(ctx context.Context, id int64, now time.Time) (int64, error) {
	query := r.dialect.Rebind(fmt.Sprintf(
		`UPDATE %s SET active = NOT active, updated_at = ? WHERE id = ?`, r.table))

	res, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return 0, fmt.Errorf("toggle %s: %w", r.table, err)
	}

	return res.RowsAffected()
}

// CountReferences counts attendance rows that use the named entry in any of
// the reference columns.
func (r *CatalogRepository) CountReferences(ctx context.Context, name string) (int, error) {
	conditions := make([]string, len(r.refColumns))
	args := make([]interface{}, len(r.refColumns))
	for i, col := range r.refColumns {
		conditions[i] = col + " = ?"
		args[i] = name
	}

	query := r.dialect.Rebind(fmt.Sprintf(
		`SELECT COUNT(*) FROM attendances WHERE %s`, strings.Join(conditions, " OR ")))

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count %s references: %w", r.table, err)
	}

	return count, nil
}

// Delete removes a catalog entry.
func (r *CatalogRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := r.dialect.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table))

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table, err)
	}

	return res.RowsAffected()
}

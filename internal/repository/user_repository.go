package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

// UserRepository provides database access for account management.
type UserRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewUserRepository(db *sqlx.DB, dialect database.Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

// FindByUsername returns a user, or sql.ErrNoRows untouched when absent so
// callers can map it to invalid-credentials.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := r.dialect.Rebind(`SELECT id, username, password_hash, created_at FROM users WHERE username = ? LIMIT 1`)

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}

	return &user, nil
}

// Create inserts a new account and returns its id.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	if r.dialect.SupportsReturning() {
		query := r.dialect.Rebind(`INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id`)
		var id int64
		if err := r.db.GetContext(ctx, &id, query, username, passwordHash); err != nil {
			return 0, fmt.Errorf("create user: %w", err)
		}
		return id, nil
	}

	query := r.dialect.Rebind(`INSERT INTO users (username, password_hash) VALUES (?, ?)`)
	res, err := r.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return res.LastInsertId()
}

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := r.dialect.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

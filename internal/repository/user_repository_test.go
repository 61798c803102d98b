package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-unival/capacitaciones-api/pkg/database"
)

func TestUserFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, database.DialectSQLite)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(1, "bibliotecario", "hash", time.Now())
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at FROM users WHERE username = \?`).
		WithArgs("bibliotecario").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "bibliotecario")
	require.NoError(t, err)
	assert.Equal(t, "bibliotecario", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByUsernameMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, database.DialectSQLite)

	mock.ExpectQuery(`SELECT id, username, password_hash, created_at FROM users`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db, database.DialectSQLite)

	mock.ExpectExec(`INSERT INTO users \(username, password_hash\) VALUES \(\?, \?\)`).
		WithArgs("bibliotecario", "hash").
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), "bibliotecario", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

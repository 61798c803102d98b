package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/biblioteca-unival/capacitaciones-api/pkg/config"
)

// NewSQLite returns a configured SQLite client. Foreign key enforcement is
// switched on via the DSN because SQLite disables it per connection.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.SQLitePath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// New opens the database selected by cfg.Driver and reports its dialect.
func New(cfg config.DatabaseConfig) (*sqlx.DB, Dialect, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := NewPostgres(cfg)
		return db, DialectPostgres, err
	case config.DriverSQLite:
		db, err := NewSQLite(cfg)
		return db, DialectSQLite, err
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

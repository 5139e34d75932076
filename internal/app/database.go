package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// NewDB opens the configured database using sensible pool defaults.
func NewDB(cfg DatabaseConfig) (*sql.DB, error) {
	if !cfg.Enabled() {
		return nil, ErrNoStore
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case "sqlite":
		// one writer; an in-memory database also lives on a single connection
		db.SetMaxOpenConns(1)
	default:
		db.SetConnMaxLifetime(1 * time.Hour)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}

	return db, nil
}

var schema = map[string]string{
	"mysql": `CREATE TABLE IF NOT EXISTS inquiries (
	id CHAR(36) NOT NULL PRIMARY KEY,
	locale VARCHAR(5) NOT NULL,
	name VARCHAR(120) NOT NULL,
	email VARCHAR(254) NOT NULL,
	message TEXT NOT NULL,
	created_at DATETIME NOT NULL
) DEFAULT CHARSET=utf8mb4`,
	"sqlite": `CREATE TABLE IF NOT EXISTS inquiries (
	id TEXT NOT NULL PRIMARY KEY,
	locale TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`,
}

// Migrate creates the inquiries table when it does not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmt, ok := schema[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create inquiries table: %w", err)
	}
	return nil
}

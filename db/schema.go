// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver types
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver type
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open connects to the response store and verifies the connection.
// driverType is DriverPostgres or DriverSQLite; url is the DSN.
func Open(ctx context.Context, driverType, url string) (*sqlx.DB, error) {
	switch driverType {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driverType)
	}

	conn, err := sqlx.Open(driverType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverType, err)
	}

	if driverType == DriverSQLite {
		// ":memory:" databases are per connection
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverType, err)
	}

	return conn, nil
}

// CreateSchema creates the response table.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS survey_response (
    id TEXT PRIMARY KEY,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_response_submitted_at ON survey_response(submitted_at)`,
}

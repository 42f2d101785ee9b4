package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Database represents the database connection
type Database struct {
	DB *sql.DB
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, dbURL string) (*Database, error) {
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: conn}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	id             BIGSERIAL PRIMARY KEY,
	kind           TEXT NOT NULL,
	first_name     TEXT NOT NULL DEFAULT '',
	last_name      TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL,
	message        TEXT NOT NULL DEFAULT '',
	ip_address     TEXT NOT NULL DEFAULT '',
	user_agent     TEXT NOT NULL DEFAULT '',
	referrer       TEXT NOT NULL DEFAULT '',
	delivered      BOOLEAN NOT NULL DEFAULT FALSE,
	delivery_error TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS submissions_created_at_idx ON submissions (created_at);
`

// Migrate creates the submissions table if it does not exist
func (d *Database) Migrate(ctx context.Context) error {
	if _, err := d.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed creating schema resources: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (d *Database) Close() error {
	return d.DB.Close()
}

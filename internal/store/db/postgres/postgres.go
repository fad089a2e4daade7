// Package postgres is the server-grade backend for deployments that already
// run postgres.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB implements store.Driver over postgres via the pgx stdlib driver.
type DB struct {
	db *sql.DB
}

// Open connects and pings the database at dsn.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// Migrate creates the schema if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leases (
			id               BIGSERIAL PRIMARY KEY,
			chat_id          BIGINT NOT NULL,
			tenant_name      TEXT   NOT NULL,
			property_address TEXT   NOT NULL,
			lease_start_date TEXT   NOT NULL,
			recert_date      TEXT   NOT NULL,
			reminder_date    TEXT   NOT NULL,
			created_ts       BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leases_chat ON leases(chat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leases_reminder ON leases(reminder_date)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id         BIGSERIAL PRIMARY KEY,
			chat_id    BIGINT NOT NULL,
			category   TEXT   NOT NULL,
			name       TEXT   NOT NULL,
			phone      TEXT   NOT NULL,
			email      TEXT,
			company    TEXT,
			specialty  TEXT,
			rating     INTEGER,
			use_count  INTEGER NOT NULL DEFAULT 0,
			created_ts BIGINT  NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendors_chat_category ON vendors(chat_id, category)`,
		`CREATE TABLE IF NOT EXISTS vendor_details (
			id             BIGSERIAL PRIMARY KEY,
			vendor_id      BIGINT NOT NULL UNIQUE REFERENCES vendors(id) ON DELETE CASCADE,
			agency         TEXT NOT NULL DEFAULT '',
			contact_name   TEXT NOT NULL DEFAULT '',
			department     TEXT NOT NULL DEFAULT '',
			contact_method TEXT NOT NULL DEFAULT '',
			best_time      TEXT NOT NULL DEFAULT '',
			fax            TEXT NOT NULL DEFAULT '',
			address        TEXT NOT NULL DEFAULT '',
			website        TEXT NOT NULL DEFAULT '',
			notes          TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS vendor_notes (
			id         BIGSERIAL PRIMARY KEY,
			vendor_id  BIGINT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			note       TEXT   NOT NULL,
			created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendor_notes_vendor ON vendor_notes(vendor_id)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

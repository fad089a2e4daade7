// Package sqlite is the embedded default backend, a single database file next
// to the binary.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB implements store.Driver over a sqlite file.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps the pragma in effect and serializes writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the schema if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leases (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id          INTEGER NOT NULL,
			tenant_name      TEXT    NOT NULL,
			property_address TEXT    NOT NULL,
			lease_start_date TEXT    NOT NULL,
			recert_date      TEXT    NOT NULL,
			reminder_date    TEXT    NOT NULL,
			created_ts       INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leases_chat ON leases(chat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_leases_reminder ON leases(reminder_date)`,
		`CREATE TABLE IF NOT EXISTS vendors (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id    INTEGER NOT NULL,
			category   TEXT    NOT NULL,
			name       TEXT    NOT NULL,
			phone      TEXT    NOT NULL,
			email      TEXT,
			company    TEXT,
			specialty  TEXT,
			rating     INTEGER,
			use_count  INTEGER NOT NULL DEFAULT 0,
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendors_chat_category ON vendors(chat_id, category)`,
		`CREATE TABLE IF NOT EXISTS vendor_details (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			vendor_id      INTEGER NOT NULL UNIQUE REFERENCES vendors(id) ON DELETE CASCADE,
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
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			vendor_id  INTEGER NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			note       TEXT    NOT NULL,
			created_ts INTEGER NOT NULL DEFAULT (strftime('%s','now'))
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

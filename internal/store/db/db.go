// Package db picks a storage backend from the configured DSN.
package db

import (
	"strings"

	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/store/db/postgres"
	"lease-recert-bot/internal/store/db/sqlite"
)

// NewDriver opens the backend indicated by dsn: postgres for postgres:// or
// postgresql:// URLs, an embedded sqlite file otherwise.
func NewDriver(dsn string) (store.Driver, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

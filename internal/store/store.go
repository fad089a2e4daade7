// Package store is the persistence contract for leases, vendors, vendor
// details and vendor notes. Every mutation and single-record read is keyed by
// record id plus owning chat id; a wrong chat id behaves exactly like a
// missing record.
package store

import (
	"context"
	"errors"

	"lease-recert-bot/internal/models"
)

// ErrNotFound is returned when a record does not exist or is owned by a
// different chat.
var ErrNotFound = errors.New("store: record not found")

// FindLease filters ListLeases. Nil fields are ignored.
type FindLease struct {
	ChatID       *int64
	ReminderDate *string
}

// FindVendor filters ListVendors. ChatID is always required; nil optional
// fields are ignored. Query does a case-insensitive substring match over
// name, company and specialty.
type FindVendor struct {
	ChatID   int64
	ID       *int64
	Category *models.VendorCategory
	Query    *string
}

// UpdateVendor carries a single-field (or multi-field) vendor update. Nil
// means untouched. For optional text fields an empty string clears the
// column; Rating 0 clears the rating.
type UpdateVendor struct {
	ID     int64
	ChatID int64

	Name      *string
	Phone     *string
	Email     *string
	Company   *string
	Specialty *string
	Rating    *int
}

// Driver is one storage backend. Implementations live under store/db and
// must make every method a single atomic statement against the database.
type Driver interface {
	Migrate(ctx context.Context) error
	Close() error

	CreateLease(ctx context.Context, create *models.Lease) (*models.Lease, error)
	ListLeases(ctx context.Context, find *FindLease) ([]*models.Lease, error)
	DeleteLease(ctx context.Context, id, chatID int64) (bool, error)
	DeleteAllLeases(ctx context.Context, chatID int64) (int64, error)

	CreateVendor(ctx context.Context, create *models.Vendor) (*models.Vendor, error)
	ListVendors(ctx context.Context, find *FindVendor) ([]*models.Vendor, error)
	UpdateVendor(ctx context.Context, update *UpdateVendor) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, id, chatID int64) (bool, error)
	DeleteAllVendors(ctx context.Context, chatID int64) (int64, error)
	IncrementVendorUse(ctx context.Context, id, chatID int64) (bool, error)

	CreateVendorDetail(ctx context.Context, create *models.VendorDetail) (*models.VendorDetail, error)
	GetVendorDetail(ctx context.Context, vendorID int64) (*models.VendorDetail, error)

	CreateVendorNote(ctx context.Context, create *models.VendorNote) (*models.VendorNote, error)
	ListVendorNotes(ctx context.Context, vendorID int64) ([]*models.VendorNote, error)
}

// Store is the facade consumed by the dialogue engine, the sweeper and the
// admin server.
type Store struct {
	driver Driver
}

// New wraps a driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.driver.Close()
}

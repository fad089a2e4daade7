package store

import (
	"context"
	"sort"

	"lease-recert-bot/internal/dates"
	"lease-recert-bot/internal/models"
)

// CreateLease persists a new lease.
func (s *Store) CreateLease(ctx context.Context, create *models.Lease) (*models.Lease, error) {
	return s.driver.CreateLease(ctx, create)
}

// ListLeasesByChat returns a chat's leases ordered by recertification date
// ascending. A lease whose stored recert date no longer parses sorts after
// all valid ones instead of being rejected.
func (s *Store) ListLeasesByChat(ctx context.Context, chatID int64) ([]*models.Lease, error) {
	leases, err := s.driver.ListLeases(ctx, &FindLease{ChatID: &chatID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(leases, func(i, j int) bool {
		ti, erri := dates.Parse(leases[i].RecertDate)
		tj, errj := dates.Parse(leases[j].RecertDate)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.Before(tj)
	})
	return leases, nil
}

// ListLeasesDueOn returns every lease, across all chats, whose reminder date
// equals the given date exactly.
func (s *Store) ListLeasesDueOn(ctx context.Context, date string) ([]*models.Lease, error) {
	return s.driver.ListLeases(ctx, &FindLease{ReminderDate: &date})
}

// DeleteLease removes one lease. Returns false when the id does not exist or
// belongs to another chat.
func (s *Store) DeleteLease(ctx context.Context, id, chatID int64) (bool, error) {
	return s.driver.DeleteLease(ctx, id, chatID)
}

// DeleteAllLeases removes every lease for a chat and returns the count.
func (s *Store) DeleteAllLeases(ctx context.Context, chatID int64) (int64, error) {
	return s.driver.DeleteAllLeases(ctx, chatID)
}

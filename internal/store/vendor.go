package store

import (
	"context"

	"lease-recert-bot/internal/models"
)

// CreateVendor persists a new vendor.
func (s *Store) CreateVendor(ctx context.Context, create *models.Vendor) (*models.Vendor, error) {
	return s.driver.CreateVendor(ctx, create)
}

// ListVendors lists a chat's vendors matching the filter, newest first.
func (s *Store) ListVendors(ctx context.Context, find *FindVendor) ([]*models.Vendor, error) {
	return s.driver.ListVendors(ctx, find)
}

// GetVendor fetches one vendor by id and owning chat. Returns ErrNotFound
// when the id does not exist or belongs to another chat.
func (s *Store) GetVendor(ctx context.Context, id, chatID int64) (*models.Vendor, error) {
	list, err := s.driver.ListVendors(ctx, &FindVendor{ChatID: chatID, ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// UpdateVendor applies the non-nil fields of update. Returns ErrNotFound when
// the (id, chat) key matches nothing.
func (s *Store) UpdateVendor(ctx context.Context, update *UpdateVendor) (*models.Vendor, error) {
	v, err := s.driver.UpdateVendor(ctx, update)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

// DeleteVendor removes one vendor; its detail row and notes cascade. Returns
// false when the key matches nothing.
func (s *Store) DeleteVendor(ctx context.Context, id, chatID int64) (bool, error) {
	return s.driver.DeleteVendor(ctx, id, chatID)
}

// DeleteAllVendors removes every vendor for a chat (details and notes
// cascade) and returns the count of vendors deleted.
func (s *Store) DeleteAllVendors(ctx context.Context, chatID int64) (int64, error) {
	return s.driver.DeleteAllVendors(ctx, chatID)
}

// IncrementVendorUse bumps a vendor's usage counter by one.
func (s *Store) IncrementVendorUse(ctx context.Context, id, chatID int64) error {
	ok, err := s.driver.IncrementVendorUse(ctx, id, chatID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// CreateVendorDetail attaches housing-authority extra fields to a vendor the
// chat owns. The vendor row is valid and queryable on its own before this
// call; that intermediate state is accepted.
func (s *Store) CreateVendorDetail(ctx context.Context, chatID int64, create *models.VendorDetail) (*models.VendorDetail, error) {
	if _, err := s.GetVendor(ctx, create.VendorID, chatID); err != nil {
		return nil, err
	}
	return s.driver.CreateVendorDetail(ctx, create)
}

// GetVendorDetail fetches the extra fields for a vendor the chat owns.
// Returns ErrNotFound when the vendor is missing, foreign, or has no detail.
func (s *Store) GetVendorDetail(ctx context.Context, vendorID, chatID int64) (*models.VendorDetail, error) {
	if _, err := s.GetVendor(ctx, vendorID, chatID); err != nil {
		return nil, err
	}
	d, err := s.driver.GetVendorDetail(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// CreateVendorNote appends a note to a vendor the chat owns.
func (s *Store) CreateVendorNote(ctx context.Context, chatID int64, create *models.VendorNote) (*models.VendorNote, error) {
	if _, err := s.GetVendor(ctx, create.VendorID, chatID); err != nil {
		return nil, err
	}
	return s.driver.CreateVendorNote(ctx, create)
}

// ListVendorNotes returns a vendor's notes newest first.
func (s *Store) ListVendorNotes(ctx context.Context, vendorID, chatID int64) ([]*models.VendorNote, error) {
	if _, err := s.GetVendor(ctx, vendorID, chatID); err != nil {
		return nil, err
	}
	return s.driver.ListVendorNotes(ctx, vendorID)
}

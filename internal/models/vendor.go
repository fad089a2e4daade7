package models

import "strings"

// VendorCategory is fixed at creation and is part of every category-browse
// lookup key.
type VendorCategory string

const (
	CategoryPlumbing    VendorCategory = "plumbing"
	CategoryElectrical  VendorCategory = "electrical"
	CategoryContracting VendorCategory = "general_contracting"
	CategoryHousingAuth VendorCategory = "housing_authority"
	CategoryOther       VendorCategory = "other"
)

// Categories lists every valid category in menu order.
var Categories = []VendorCategory{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryContracting,
	CategoryHousingAuth,
	CategoryOther,
}

// ParseCategory accepts a 1-based menu number or a category name (a few
// common spellings included). Returns false for anything else.
func ParseCategory(s string) (VendorCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "plumbing", "plumber":
		return CategoryPlumbing, true
	case "2", "electrical", "electric", "electrician":
		return CategoryElectrical, true
	case "3", "general_contracting", "general contracting", "contractor", "gc":
		return CategoryContracting, true
	case "4", "housing_authority", "housing authority", "housing", "pha":
		return CategoryHousingAuth, true
	case "5", "other":
		return CategoryOther, true
	}
	return "", false
}

// Label returns the human form used in menus and list rendering.
func (c VendorCategory) Label() string {
	switch c {
	case CategoryPlumbing:
		return "Plumbing"
	case CategoryElectrical:
		return "Electrical"
	case CategoryContracting:
		return "General Contracting"
	case CategoryHousingAuth:
		return "Housing Authority"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// Vendor is a service contact owned by a chat. Phone is required; the rest of
// the contact fields are optional. UseCount belongs to the row but is only
// incremented by callers outside the dialogue engine.
type Vendor struct {
	ID        int64          `json:"id"`
	ChatID    int64          `json:"chat_id"`
	Category  VendorCategory `json:"category"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Email     *string        `json:"email,omitempty"`
	Company   *string        `json:"company,omitempty"`
	Specialty *string        `json:"specialty,omitempty"`
	Rating    *int           `json:"rating,omitempty"`
	UseCount  int            `json:"use_count"`
	CreatedTs int64          `json:"created_ts"`
}

// VendorDetail holds the extra housing-authority fields. Owned 1:1 by a
// vendor and cascade-deleted with it; every field is free-form and optional.
type VendorDetail struct {
	ID            int64  `json:"id"`
	VendorID      int64  `json:"vendor_id"`
	Agency        string `json:"agency,omitempty"`
	ContactName   string `json:"contact_name,omitempty"`
	Department    string `json:"department,omitempty"`
	ContactMethod string `json:"contact_method,omitempty"`
	BestTime      string `json:"best_time,omitempty"`
	Fax           string `json:"fax,omitempty"`
	Address       string `json:"address,omitempty"`
	Website       string `json:"website,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// VendorNote is append-only and cascade-deleted with its vendor.
type VendorNote struct {
	ID        int64  `json:"id"`
	VendorID  int64  `json:"vendor_id"`
	Note      string `json:"note"`
	CreatedTs int64  `json:"created_ts"`
}

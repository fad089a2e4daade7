package models

// Lease tracks one Section 8 lease for a chat. The recertification and
// reminder dates are derived from the start date at creation time and are
// never user-supplied.
type Lease struct {
	ID           int64  `json:"id"`
	ChatID       int64  `json:"chat_id"`
	TenantName   string `json:"tenant_name"`
	Address      string `json:"property_address"`
	StartDate    string `json:"lease_start_date"`
	RecertDate   string `json:"recert_date"`
	ReminderDate string `json:"reminder_date"`
	CreatedTs    int64  `json:"created_ts"`
}

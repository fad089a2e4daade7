package dialogue

import (
	"sync"
	"time"

	"lease-recert-bot/internal/models"
)

// Kind names one multi-step dialogue definition.
type Kind string

const (
	KindLeaseAdd     Kind = "lease_add"
	KindLeaseRemove  Kind = "lease_remove"
	KindVendorAdd    Kind = "vendor_add"
	KindVendorDetail Kind = "vendor_detail"
	KindVendorEdit   Kind = "vendor_edit"
)

// Draft accumulates the partially-filled record while a dialogue is running.
// Only the part matching the session's kind is populated.
type Draft struct {
	Lease  models.Lease
	Vendor models.Vendor

	// Detail is the housing-authority sub-dialogue draft; DetailVendorID is
	// the vendor it attaches to.
	Detail         models.VendorDetail
	DetailVendorID int64

	// Snapshots taken at dialogue start for pick-by-number flows. The
	// snapshot, not a live re-query, maps the chosen index to a record id.
	Leases  []*models.Lease
	Vendors []*models.Vendor

	// Edit flow targets.
	EditVendorID int64
	EditField    string
	EditValue    string
}

// Session is the transient per-chat dialogue state. It exists only between
// start and completion/cancellation and is never persisted.
type Session struct {
	ChatID     int64
	Kind       Kind
	Step       int
	Draft      Draft
	LastActive time.Time
}

// SessionStore holds at most one active session per chat.
type SessionStore interface {
	Get(chatID int64) (*Session, bool)
	Put(s *Session)
	Delete(chatID int64)
}

// MemorySessionStore is the default in-process SessionStore. Sessions idle
// longer than ttl are evicted lazily on access; an expired session behaves
// exactly like no session.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[int64]*Session
}

// NewMemorySessionStore creates a session store with the given idle TTL.
// A non-positive ttl disables eviction.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]*Session),
	}
}

func (m *MemorySessionStore) Get(chatID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().Sub(s.LastActive) > m.ttl {
		delete(m.sessions, chatID)
		return nil, false
	}
	return s, true
}

func (m *MemorySessionStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.LastActive = m.now()
	m.sessions[s.ChatID] = s
}

func (m *MemorySessionStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

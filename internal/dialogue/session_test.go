package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemorySessionStore(30 * time.Minute)
	m.now = func() time.Time { return now }

	m.Put(&Session{ChatID: 1, Kind: KindLeaseAdd})

	s, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, KindLeaseAdd, s.Kind)

	// Just inside the TTL.
	now = now.Add(30 * time.Minute)
	_, ok = m.Get(1)
	assert.True(t, ok)

	// Past it: the session is gone, exactly as if it never existed.
	now = now.Add(time.Minute)
	_, ok = m.Get(1)
	assert.False(t, ok)
	_, ok = m.Get(1)
	assert.False(t, ok)
}

func TestMemorySessionStoreActivityResetsTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemorySessionStore(30 * time.Minute)
	m.now = func() time.Time { return now }

	m.Put(&Session{ChatID: 1, Kind: KindLeaseAdd})

	// A Put twenty minutes in restamps LastActive.
	now = now.Add(20 * time.Minute)
	s, ok := m.Get(1)
	require.True(t, ok)
	m.Put(s)

	now = now.Add(25 * time.Minute)
	_, ok = m.Get(1)
	assert.True(t, ok)
}

func TestMemorySessionStoreZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemorySessionStore(0)
	m.now = func() time.Time { return now }

	m.Put(&Session{ChatID: 1, Kind: KindVendorAdd})

	now = now.Add(72 * time.Hour)
	_, ok := m.Get(1)
	assert.True(t, ok)
}

func TestMemorySessionStoreDelete(t *testing.T) {
	m := NewMemorySessionStore(30 * time.Minute)
	m.Put(&Session{ChatID: 1})
	m.Delete(1)
	_, ok := m.Get(1)
	assert.False(t, ok)
}

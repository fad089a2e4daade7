package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for engine tests. Error fields force the
// next matching call to fail.
type fakeStore struct {
	nextID  int64
	leases  []*models.Lease
	vendors []*models.Vendor
	details []*models.VendorDetail

	createLeaseErr error
	listLeasesErr  error
}

func (f *fakeStore) CreateLease(ctx context.Context, create *models.Lease) (*models.Lease, error) {
	if f.createLeaseErr != nil {
		err := f.createLeaseErr
		f.createLeaseErr = nil
		return nil, err
	}
	f.nextID++
	l := *create
	l.ID = f.nextID
	f.leases = append(f.leases, &l)
	return &l, nil
}

func (f *fakeStore) ListLeasesByChat(ctx context.Context, chatID int64) ([]*models.Lease, error) {
	if f.listLeasesErr != nil {
		return nil, f.listLeasesErr
	}
	var out []*models.Lease
	for _, l := range f.leases {
		if l.ChatID == chatID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteLease(ctx context.Context, id, chatID int64) (bool, error) {
	for i, l := range f.leases {
		if l.ID == id && l.ChatID == chatID {
			f.leases = append(f.leases[:i], f.leases[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateVendor(ctx context.Context, create *models.Vendor) (*models.Vendor, error) {
	f.nextID++
	v := *create
	v.ID = f.nextID
	f.vendors = append(f.vendors, &v)
	return &v, nil
}

func (f *fakeStore) ListVendors(ctx context.Context, find *store.FindVendor) ([]*models.Vendor, error) {
	var out []*models.Vendor
	for _, v := range f.vendors {
		if v.ChatID != find.ChatID {
			continue
		}
		if find.ID != nil && v.ID != *find.ID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) UpdateVendor(ctx context.Context, update *store.UpdateVendor) (*models.Vendor, error) {
	for _, v := range f.vendors {
		if v.ID != update.ID || v.ChatID != update.ChatID {
			continue
		}
		if update.Name != nil {
			v.Name = *update.Name
		}
		if update.Phone != nil {
			v.Phone = *update.Phone
		}
		if update.Rating != nil {
			if *update.Rating == 0 {
				v.Rating = nil
			} else {
				r := *update.Rating
				v.Rating = &r
			}
		}
		return v, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateVendorDetail(ctx context.Context, chatID int64, create *models.VendorDetail) (*models.VendorDetail, error) {
	f.nextID++
	d := *create
	d.ID = f.nextID
	f.details = append(f.details, &d)
	return &d, nil
}

func newTestEngine(fs *fakeStore) *Engine {
	return New(fs, NewMemorySessionStore(30*time.Minute))
}

const chatID = int64(1001)

func TestLeaseAddHappyPath(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	reply := e.Start(ctx, KindLeaseAdd, chatID)
	assert.Contains(t, reply, "Enter tenant name:")
	assert.True(t, e.Active(chatID))

	reply, ok := e.Input(ctx, chatID, "Jane Smith")
	require.True(t, ok)
	assert.Equal(t, "Enter property address:", reply)

	reply, ok = e.Input(ctx, chatID, "12 Oak St")
	require.True(t, ok)
	assert.Equal(t, "Enter lease start date (MM/DD/YYYY):", reply)

	reply, ok = e.Input(ctx, chatID, "01/01/2025")
	require.True(t, ok)
	assert.Contains(t, reply, "Lease added.")
	assert.Contains(t, reply, "Recert: 09/28/2025")
	assert.Contains(t, reply, "Reminder: 09/21/2025")
	assert.False(t, e.Active(chatID))

	require.Len(t, fs.leases, 1)
	l := fs.leases[0]
	assert.Equal(t, chatID, l.ChatID)
	assert.Equal(t, "Jane Smith", l.TenantName)
	assert.Equal(t, "09/28/2025", l.RecertDate)
	assert.Equal(t, "09/21/2025", l.ReminderDate)
}

func TestLeaseAddInvalidDateReprompts(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindLeaseAdd, chatID)
	e.Input(ctx, chatID, "Jane Smith")
	e.Input(ctx, chatID, "12 Oak St")

	reply, ok := e.Input(ctx, chatID, "2025-01-01")
	require.True(t, ok)
	assert.Equal(t, "Invalid date format. Please enter date as MM/DD/YYYY (e.g., 01/15/2025):", reply)
	assert.Empty(t, fs.leases)

	reply, _ = e.Input(ctx, chatID, "01/15/2025")
	assert.Contains(t, reply, "Lease added.")
	require.Len(t, fs.leases, 1)
}

func TestRequiredFieldRejectsSkip(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	ctx := context.Background()

	e.Start(ctx, KindLeaseAdd, chatID)
	reply, ok := e.Input(ctx, chatID, "skip")
	require.True(t, ok)
	assert.Equal(t, msgRequired, reply)

	// Still on the same step.
	reply, _ = e.Input(ctx, chatID, "Jane Smith")
	assert.Equal(t, "Enter property address:", reply)
}

func TestCancelDiscardsDraft(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindLeaseAdd, chatID)
	e.Input(ctx, chatID, "Jane Smith")

	reply, had := e.Cancel(chatID)
	assert.True(t, had)
	assert.Equal(t, msgCancelled, reply)
	assert.False(t, e.Active(chatID))
	assert.Empty(t, fs.leases)

	_, had = e.Cancel(chatID)
	assert.False(t, had)
}

func TestInputWithoutSession(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	_, ok := e.Input(context.Background(), chatID, "hello")
	assert.False(t, ok)
}

func TestStartReplacesActiveSession(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindLeaseAdd, chatID)
	e.Input(ctx, chatID, "Jane Smith")

	reply := e.Start(ctx, KindVendorAdd, chatID)
	assert.Contains(t, reply, "Choose a category:")

	// The old lease draft is gone; this input lands on the vendor flow.
	reply, ok := e.Input(ctx, chatID, "1")
	require.True(t, ok)
	assert.Equal(t, "Enter vendor name:", reply)
}

func TestLeaseRemove(t *testing.T) {
	fs := &fakeStore{}
	fs.leases = []*models.Lease{
		{ID: 1, ChatID: chatID, TenantName: "Jane Smith", Address: "12 Oak St", StartDate: "01/01/2025", RecertDate: "09/28/2025", ReminderDate: "09/21/2025"},
		{ID: 2, ChatID: chatID, TenantName: "Bob Lee", Address: "9 Elm Ave", StartDate: "02/15/2025", RecertDate: "11/12/2025", ReminderDate: "11/05/2025"},
	}
	e := newTestEngine(fs)
	ctx := context.Background()

	reply := e.Start(ctx, KindLeaseRemove, chatID)
	assert.Contains(t, reply, "Jane Smith")
	assert.Contains(t, reply, "Bob Lee")

	reply, ok := e.Input(ctx, chatID, "abc")
	require.True(t, ok)
	assert.Equal(t, "Please enter a valid number from the list:", reply)

	reply, ok = e.Input(ctx, chatID, "5")
	require.True(t, ok)
	assert.Equal(t, "Please enter a number between 1 and 2:", reply)

	reply, ok = e.Input(ctx, chatID, "2")
	require.True(t, ok)
	assert.Equal(t, "Lease for Bob Lee has been removed.", reply)
	require.Len(t, fs.leases, 1)
	assert.Equal(t, "Jane Smith", fs.leases[0].TenantName)
	assert.False(t, e.Active(chatID))
}

func TestLeaseRemoveEmpty(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	reply := e.Start(context.Background(), KindLeaseRemove, chatID)
	assert.Equal(t, "No leases found. There's nothing to remove.", reply)
	assert.False(t, e.Active(chatID))
}

func TestLeaseRemoveStaleSnapshot(t *testing.T) {
	fs := &fakeStore{}
	fs.leases = []*models.Lease{
		{ID: 1, ChatID: chatID, TenantName: "Jane Smith"},
	}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindLeaseRemove, chatID)
	// The row disappears after the snapshot was taken.
	fs.leases = nil

	reply, ok := e.Input(ctx, chatID, "1")
	require.True(t, ok)
	assert.Equal(t, "Error removing lease. It may have already been removed.", reply)
	assert.False(t, e.Active(chatID))
}

func TestVendorAddWithSkips(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	reply := e.Start(ctx, KindVendorAdd, chatID)
	assert.Contains(t, reply, "1) Plumbing")

	reply, _ = e.Input(ctx, chatID, "plumber")
	assert.Equal(t, "Enter vendor name:", reply)
	e.Input(ctx, chatID, "Mike's Plumbing")
	e.Input(ctx, chatID, "555-0101")
	e.Input(ctx, chatID, "SKIP")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")

	reply, ok := e.Input(ctx, chatID, "skip")
	require.True(t, ok)
	assert.Equal(t, "Vendor Mike's Plumbing (Plumbing) added.", reply)
	assert.False(t, e.Active(chatID))

	require.Len(t, fs.vendors, 1)
	v := fs.vendors[0]
	assert.Equal(t, models.CategoryPlumbing, v.Category)
	assert.Equal(t, "555-0101", v.Phone)
	assert.Nil(t, v.Email)
	assert.Nil(t, v.Rating)
}

func TestVendorAddRatingValidation(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindVendorAdd, chatID)
	e.Input(ctx, chatID, "2")
	e.Input(ctx, chatID, "Sparks Electric")
	e.Input(ctx, chatID, "555-0102")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")

	reply, _ := e.Input(ctx, chatID, "9")
	assert.Equal(t, msgBadRating, reply)

	reply, _ = e.Input(ctx, chatID, "4")
	assert.Contains(t, reply, "added.")
	require.Len(t, fs.vendors, 1)
	require.NotNil(t, fs.vendors[0].Rating)
	assert.Equal(t, 4, *fs.vendors[0].Rating)
}

func TestVendorAddHousingAuthorityChainsIntoDetails(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindVendorAdd, chatID)
	e.Input(ctx, chatID, "4")
	e.Input(ctx, chatID, "City Housing Authority")
	e.Input(ctx, chatID, "555-0103")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")

	reply, ok := e.Input(ctx, chatID, "skip")
	require.True(t, ok)
	assert.Contains(t, reply, "Vendor City Housing Authority (Housing Authority) added.")
	assert.Contains(t, reply, "extra housing authority details")
	assert.Contains(t, reply, "Agency name (or 'skip'):")
	assert.True(t, e.Active(chatID))

	reply, _ = e.Input(ctx, chatID, "Springfield Housing Authority")
	assert.Equal(t, "Contact person (or 'skip'):", reply)
	for i := 0; i < 8; i++ {
		reply, _ = e.Input(ctx, chatID, "skip")
	}
	assert.Equal(t, "Housing authority details saved.", reply)
	assert.False(t, e.Active(chatID))

	require.Len(t, fs.details, 1)
	d := fs.details[0]
	assert.Equal(t, fs.vendors[0].ID, d.VendorID)
	assert.Equal(t, "Springfield Housing Authority", d.Agency)
}

func TestVendorAddOtherCategoryDoesNotChain(t *testing.T) {
	fs := &fakeStore{}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindVendorAdd, chatID)
	e.Input(ctx, chatID, "5")
	e.Input(ctx, chatID, "Misc Services")
	e.Input(ctx, chatID, "555-0104")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")
	e.Input(ctx, chatID, "skip")

	reply, _ := e.Input(ctx, chatID, "skip")
	assert.Equal(t, "Vendor Misc Services (Other) added.", reply)
	assert.False(t, e.Active(chatID))
	assert.Empty(t, fs.details)
}

func TestVendorEdit(t *testing.T) {
	fs := &fakeStore{}
	fs.vendors = []*models.Vendor{
		{ID: 1, ChatID: chatID, Category: models.CategoryPlumbing, Name: "Mike's Plumbing", Phone: "555-0101"},
	}
	e := newTestEngine(fs)
	ctx := context.Background()

	reply := e.Start(ctx, KindVendorEdit, chatID)
	assert.Contains(t, reply, "Mike's Plumbing")

	reply, _ = e.Input(ctx, chatID, "1")
	assert.Contains(t, reply, "Which field do you want to change?")

	reply, _ = e.Input(ctx, chatID, "name")
	assert.Equal(t, "Enter the new name:", reply)

	reply, ok := e.Input(ctx, chatID, "Mike & Sons Plumbing")
	require.True(t, ok)
	assert.Equal(t, "Vendor Mike & Sons Plumbing updated (name).", reply)
	assert.Equal(t, "Mike & Sons Plumbing", fs.vendors[0].Name)
	assert.False(t, e.Active(chatID))
}

func TestVendorEditSkipClearsRating(t *testing.T) {
	rating := 3
	fs := &fakeStore{}
	fs.vendors = []*models.Vendor{
		{ID: 1, ChatID: chatID, Category: models.CategoryPlumbing, Name: "Mike's Plumbing", Phone: "555-0101", Rating: &rating},
	}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindVendorEdit, chatID)
	e.Input(ctx, chatID, "1")
	reply, _ := e.Input(ctx, chatID, "rating")
	assert.Equal(t, "Enter the new rating (or 'skip' to clear it):", reply)

	reply, _ = e.Input(ctx, chatID, "skip")
	assert.Equal(t, "Vendor Mike's Plumbing updated (rating).", reply)
	assert.Nil(t, fs.vendors[0].Rating)
}

func TestVendorEditStaleSnapshot(t *testing.T) {
	fs := &fakeStore{}
	fs.vendors = []*models.Vendor{
		{ID: 1, ChatID: chatID, Category: models.CategoryOther, Name: "Misc", Phone: "555-0100"},
	}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindVendorEdit, chatID)
	e.Input(ctx, chatID, "1")
	e.Input(ctx, chatID, "phone")
	fs.vendors = nil

	reply, _ := e.Input(ctx, chatID, "555-0199")
	assert.Equal(t, "Error updating vendor. It may have been removed.", reply)
	assert.False(t, e.Active(chatID))
}

func TestStartFailureReportsStoreTrouble(t *testing.T) {
	fs := &fakeStore{listLeasesErr: errors.New("db closed")}
	e := newTestEngine(fs)

	reply := e.Start(context.Background(), KindLeaseRemove, chatID)
	assert.Equal(t, msgStoreFailure, reply)
	assert.False(t, e.Active(chatID))
}

func TestCompleteFailureKeepsSessionForRetry(t *testing.T) {
	fs := &fakeStore{createLeaseErr: errors.New("disk full")}
	e := newTestEngine(fs)
	ctx := context.Background()

	e.Start(ctx, KindLeaseAdd, chatID)
	e.Input(ctx, chatID, "Jane Smith")
	e.Input(ctx, chatID, "12 Oak St")

	reply, ok := e.Input(ctx, chatID, "01/01/2025")
	require.True(t, ok)
	assert.Equal(t, msgStoreFailure, reply)
	assert.True(t, e.Active(chatID))

	// The store recovers; re-sending the date completes the dialogue.
	reply, _ = e.Input(ctx, chatID, "01/01/2025")
	assert.Contains(t, reply, "Lease added.")
	require.Len(t, fs.leases, 1)
}

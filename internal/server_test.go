package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lease-recert-bot/internal/config"
	"lease-recert-bot/internal/models"
	"lease-recert-bot/internal/store"
	"lease-recert-bot/internal/sweeper"
	"lease-recert-bot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
)

type recordingNotifier struct {
	sent []int64
}

func (r *recordingNotifier) Send(ctx context.Context, chatID int64, text string) error {
	r.sent = append(r.sent, chatID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-key-long-enough",
		JWTIssuer:     "lease-recert-bot",
		JWTAudience:   "lease-recert-bot",
		JWTExpiry:     time.Hour,
		EnableMetrics: true,
	}
}

func newTestServer(t *testing.T) (*Server, *store.Store, *recordingNotifier) {
	t.Helper()
	st := testutil.NewTestStore(t)
	notifier := &recordingNotifier{}
	sw := sweeper.New(st, notifier, 0, 9, 0, nil)
	sw.SetNow(func() time.Time {
		return time.Date(2025, 9, 21, 10, 0, 0, 0, time.UTC)
	})
	srv := NewServer(st, sw, NewMetrics(), testConfig())
	return srv, st, notifier
}

func authHeader(t *testing.T, srv *Server, roles ...string) string {
	t.Helper()
	token, err := srv.JWTManager.GenerateToken("ops", roles)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(srv *Server, method, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func seedLease(t *testing.T, st *store.Store, chatID int64, tenant, recert, reminder string) {
	t.Helper()
	_, err := st.CreateLease(context.Background(), &models.Lease{
		ChatID:       chatID,
		TenantName:   tenant,
		Address:      "1 Test St",
		StartDate:    "01/01/2025",
		RecertDate:   recert,
		ReminderDate: reminder,
	})
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doRequest(srv, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestLeasesRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doRequest(srv, "GET", "/leases?chat_id=1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListLeases(t *testing.T) {
	srv, st, _ := newTestServer(t)
	seedLease(t, st, 1, "Jane Smith", "09/28/2025", "09/21/2025")
	seedLease(t, st, 2, "Bob Lee", "11/12/2025", "11/05/2025")
	auth := authHeader(t, srv, "viewer")

	w := doRequest(srv, "GET", "/leases?chat_id=1", auth)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []*models.Lease `json:"items"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Jane Smith", resp.Items[0].TenantName)

	w = doRequest(srv, "GET", "/leases", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListVendors(t *testing.T) {
	srv, st, _ := newTestServer(t)
	ctx := context.Background()
	_, err := st.CreateVendor(ctx, &models.Vendor{ChatID: 1, Category: models.CategoryPlumbing, Name: "Mike's Plumbing", Phone: "555-0101"})
	require.NoError(t, err)
	_, err = st.CreateVendor(ctx, &models.Vendor{ChatID: 1, Category: models.CategoryElectrical, Name: "Sparks Electric", Phone: "555-0102"})
	require.NoError(t, err)
	auth := authHeader(t, srv, "viewer")

	w := doRequest(srv, "GET", "/vendors?chat_id=1&category=plumbing", auth)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []*models.Vendor `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Mike's Plumbing", resp.Items[0].Name)

	w = doRequest(srv, "GET", "/vendors?chat_id=1&category=gardening", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(srv, "GET", "/vendors?chat_id=1&q=sparks", auth)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestGetVendor(t *testing.T) {
	srv, st, _ := newTestServer(t)
	ctx := context.Background()
	v, err := st.CreateVendor(ctx, &models.Vendor{ChatID: 1, Category: models.CategoryHousingAuth, Name: "City Housing Authority", Phone: "555-0103"})
	require.NoError(t, err)
	_, err = st.CreateVendorDetail(ctx, 1, &models.VendorDetail{VendorID: v.ID, Agency: "SHA"})
	require.NoError(t, err)
	_, err = st.CreateVendorNote(ctx, 1, &models.VendorNote{VendorID: v.ID, Note: "responsive"})
	require.NoError(t, err)
	auth := authHeader(t, srv, "viewer")

	w := doRequest(srv, "GET", "/vendors/1?chat_id=1", auth)
	require.Equal(t, http.StatusOK, w.Code)

	var resp vendorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "City Housing Authority", resp.Vendor.Name)
	require.NotNil(t, resp.Detail)
	assert.Equal(t, "SHA", resp.Detail.Agency)
	require.Len(t, resp.Notes, 1)

	w = doRequest(srv, "GET", "/vendors/1?chat_id=2", auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunSweepRequiresAdmin(t *testing.T) {
	srv, st, notifier := newTestServer(t)
	seedLease(t, st, 100, "Jane Smith", "09/28/2025", "09/21/2025")

	w := doRequest(srv, "POST", "/sweeps/run", authHeader(t, srv, "viewer"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, notifier.sent)

	w = doRequest(srv, "POST", "/sweeps/run", authHeader(t, srv, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{100}, notifier.sent)
}

func TestExportLeases(t *testing.T) {
	srv, st, _ := newTestServer(t)
	seedLease(t, st, 1, "Jane Smith", "09/28/2025", "09/21/2025")

	w := doRequest(srv, "GET", "/exports/leases.xlsx?chat_id=1", authHeader(t, srv, "admin"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	row, err := file.Sheets[0].Row(1)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", row.GetCell(1).String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	doRequest(srv, "GET", "/health", "")

	w := doRequest(srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, `path="/health"`)
}

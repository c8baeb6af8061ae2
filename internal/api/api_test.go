package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"arena/internal/availability"
	"arena/internal/clock"
	"arena/internal/court"
	"arena/internal/database"
	"arena/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "secret"

// 2025-06-02 is a Monday.
var monday = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

type apiFixture struct {
	server *HTTPServer
	clock  *clock.Mock
}

func newTestServer(t *testing.T, opts Options) apiFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(filepath.Join(t.TempDir(), "arena.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clk := clock.NewMock(monday)
	svc := service.NewCourtService(db, nil, nil, clk, &logger)
	return apiFixture{server: NewHTTPServer(opts, svc, db, &logger), clock: clk}
}

func (f apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-Api-Key", testAPIKey)
	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func createCourt(t *testing.T, f apiFixture) string {
	t.Helper()
	rr := f.do(t, http.MethodPost, "/api/courts", map[string]any{"name": "Court A", "sport": "padel", "base_price": "100"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	c := decode[court.Court](t, rr)

	base := "/api/courts/" + strconv.FormatInt(c.ID, 10)
	rr = f.do(t, http.MethodPost, base+"/days/monday/slots", map[string]string{"start": "06:00", "end": "23:00"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = f.do(t, http.MethodPut, base+"/days/monday/open", map[string]bool{"open": true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = f.do(t, http.MethodPost, base+"/recurring", map[string]string{
		"customer": "Ana", "weekday": "monday", "start": "08:00", "end": "09:00",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return base
}

func TestHTTPServer_QueryFlow(t *testing.T) {
	f := newTestServer(t, Options{APIKey: testAPIKey})
	base := createCourt(t, f)

	rr := f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-02", "start": "08:00", "end": "09:00"})
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[availability.Result](t, rr)
	assert.False(t, res.Available)
	assert.Equal(t, availability.ReasonRecurringReservation, res.Reason)
	assert.Equal(t, "Ana", res.Customer)

	rr = f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-02", "start": "10:00", "end": "11:00"})
	require.Equal(t, http.StatusOK, rr.Code)
	res = decode[availability.Result](t, rr)
	assert.True(t, res.Available)
	assert.True(t, decimal.NewFromInt(100).Equal(res.Price))

	rr = f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-03", "start": "10:00", "end": "11:00"})
	res = decode[availability.Result](t, rr)
	assert.Equal(t, availability.ReasonDayClosed, res.Reason)

	rr = f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-02", "start": "11:00", "end": "10:00"})
	require.Equal(t, http.StatusOK, rr.Code)
	res = decode[availability.Result](t, rr)
	assert.Equal(t, availability.ReasonInvalidQuery, res.Reason)
}

func TestHTTPServer_RequiresAPIKey(t *testing.T) {
	f := newTestServer(t, Options{APIKey: testAPIKey})

	req := httptest.NewRequest(http.MethodGet, "/api/courts", nil)
	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/courts", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHTTPServer_RateLimit(t *testing.T) {
	f := newTestServer(t, Options{RateLimitRPS: 1, RateLimitBurst: 2})

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/courts", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/courts", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodGet, "/api/courts", nil).Code)
}

func TestHTTPServer_ErrorMapping(t *testing.T) {
	f := newTestServer(t, Options{})
	base := createCourt(t, f)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown court", http.MethodGet, "/api/courts/999", nil, http.StatusNotFound},
		{"bad court id", http.MethodGet, "/api/courts/abc", nil, http.StatusBadRequest},
		{"overlapping slot", http.MethodPost, base + "/days/monday/slots", map[string]string{"start": "07:00", "end": "08:00"}, http.StatusConflict},
		{"inverted slot", http.MethodPost, base + "/days/monday/slots", map[string]string{"start": "08:00", "end": "07:00"}, http.StatusBadRequest},
		{"unknown weekday", http.MethodPost, base + "/days/funday/slots", map[string]string{"start": "07:00", "end": "08:00"}, http.StatusBadRequest},
		{"unknown slot", http.MethodDelete, base + "/days/monday/slots/nope", nil, http.StatusNotFound},
		{"missing field", http.MethodPost, base + "/recurring", map[string]string{"weekday": "monday"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/courts", map[string]string{"name": "Court B", "sport": "padel", "colour": "red"}, http.StatusBadRequest},
		{"zero price", http.MethodPost, "/api/courts", map[string]string{"name": "Court B", "sport": "padel", "base_price": "0"}, http.StatusBadRequest},
		{"bad discount kind", http.MethodPost, base + "/special-prices", map[string]string{"weekday": "monday", "start": "18:00", "end": "20:00", "kind": "free", "value": "1"}, http.StatusBadRequest},
		{"percent over 100", http.MethodPost, base + "/special-prices", map[string]string{"weekday": "monday", "start": "18:00", "end": "20:00", "kind": "percent", "value": "120"}, http.StatusBadRequest},
		{"reopen in the past", http.MethodPost, base + "/block", map[string]any{"reopen_at": monday.Add(-time.Hour)}, http.StatusBadRequest},
		{"unknown promotion", http.MethodPut, base + "/promotions/nope/active", map[string]bool{"active": false}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestHTTPServer_PricingAndBlock(t *testing.T) {
	f := newTestServer(t, Options{})
	base := createCourt(t, f)

	rr := f.do(t, http.MethodPost, base+"/special-prices", map[string]string{
		"weekday": "monday", "start": "18:00", "end": "20:00", "kind": "fixed", "value": "150",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, base+"/promotions", map[string]any{
		"name": "Winter", "kind": "percent", "value": "50",
		"start_date": "2025-06-01", "end_date": "2025-06-30",
		"weekdays": []string{"monday"},
		"slots":    []map[string]string{{"start": "06:00", "end": "23:00"}},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	promo := decode[map[string]any](t, rr)
	promoID, _ := promo["id"].(string)
	require.NotEmpty(t, promoID)

	rr = f.do(t, http.MethodGet, base+"/quote?date=2025-06-02&start=19:00&end=20:00", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	quote := decode[map[string]any](t, rr)
	assert.Equal(t, "150", quote["amount"])

	rr = f.do(t, http.MethodGet, base+"/quote?date=2025-06-02&start=10:00&end=11:00", nil)
	quote = decode[map[string]any](t, rr)
	assert.Equal(t, "50", quote["amount"])

	rr = f.do(t, http.MethodPut, base+"/promotions/"+promoID+"/active", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = f.do(t, http.MethodGet, base+"/quote?date=2025-06-02&start=10:00&end=11:00", nil)
	quote = decode[map[string]any](t, rr)
	assert.Equal(t, "100", quote["amount"])

	reopen := monday.Add(2 * time.Hour)
	rr = f.do(t, http.MethodPost, base+"/block", map[string]any{"reopen_at": reopen, "reason": "maintenance"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-02", "start": "10:00", "end": "11:00"})
	res := decode[availability.Result](t, rr)
	assert.Equal(t, availability.ReasonResourceBlocked, res.Reason)

	f.clock.Set(reopen)
	rr = f.do(t, http.MethodPost, base+"/query", map[string]string{"date": "2025-06-02", "start": "10:00", "end": "11:00"})
	res = decode[availability.Result](t, rr)
	assert.True(t, res.Available)
}

func TestHTTPServer_GridConflictsAndChanges(t *testing.T) {
	f := newTestServer(t, Options{})
	base := createCourt(t, f)

	rr := f.do(t, http.MethodGet, base+"/grid?date=2025-06-02", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	grid := decode[gridResponse](t, rr)
	assert.Equal(t, "2025-06-02", grid.Date)
	assert.Len(t, grid.Cells, 34)

	rr = f.do(t, http.MethodGet, base+"/grid?date=2025-06-03", nil)
	grid = decode[gridResponse](t, rr)
	assert.Empty(t, grid.Cells)

	rr = f.do(t, http.MethodPost, base+"/recurring", map[string]string{"weekday": "tuesday", "start": "08:00", "end": "09:00"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, base+"/recurring/conflicts?weekday=tuesday", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	conflicts := decode[map[string]map[string][]json.RawMessage](t, rr)
	assert.Len(t, conflicts["conflicts"]["tuesday"], 1)

	rr = f.do(t, http.MethodGet, base+"/changes", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, base+"/export?date=2025-06-02", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, rr.Body.Len())
}

func TestHTTPServer_CatalogDuplicateDelete(t *testing.T) {
	f := newTestServer(t, Options{})
	base := createCourt(t, f)

	rr := f.do(t, http.MethodPost, base+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	dup := decode[court.Court](t, rr)
	assert.Equal(t, "Court A (copy)", dup.Name)

	rr = f.do(t, http.MethodPost, base+"/block", map[string]string{"reason": "rain"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, http.MethodGet, "/api/courts?status=available", nil)
	list := decode[courtsResponse](t, rr)
	require.Len(t, list.Courts, 1)
	assert.Equal(t, dup.ID, list.Courts[0].ID)

	rr = f.do(t, http.MethodGet, "/api/courts?status=broken", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = f.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

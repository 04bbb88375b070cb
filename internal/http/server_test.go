package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/ledger/memory"
	"gigbook/internal/services"
)

func newTestServer() *Server {
	store := memory.New()
	return NewServer(":0", services.NewEntryService(store, nil), store, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func createTestEntry(t *testing.T, s *Server, date string) entryResponse {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/entries", map[string]any{
		"date":        date,
		"description": "wedding gig",
		"client":      "Levi family",
		"amountGross": 2500.0,
		"vatType":     "tax-inclusive",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestCreateAndGetEntry(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")
	if created.ID == "" || created.Status != "done" {
		t.Fatalf("unexpected created entry: %+v", created)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/entries/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var got entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Date != "2025-05-01" || got.Client != "Levi family" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.AmountGross.Equal(core.MoneyFromCents(250000)) {
		t.Fatalf("unexpected gross: %s", got.AmountGross)
	}
}

func TestGetMissingEntry(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/entries/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPost, "/api/entries", map[string]any{
		"date":        "2025-05-01",
		"description": "",
		"client":      "Levi family",
		"amountGross": 100.0,
		"vatType":     "tax-inclusive",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateEntryBadJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListEntriesByMonth(t *testing.T) {
	s := newTestServer()
	createTestEntry(t, s, "2025-05-01")
	createTestEntry(t, s, "2025-05-20")
	createTestEntry(t, s, "2025-06-03")

	rec := doJSON(t, s, http.MethodGet, "/api/entries?year=2025&month=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var resp struct {
		Year    int             `json:"year"`
		Month   int             `json:"month"`
		Entries []entryResponse `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Year != 2025 || resp.Month != 5 || len(resp.Entries) != 2 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func TestTransitionsAndCacheInvalidation(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")

	// warm the caches
	doJSON(t, s, http.MethodGet, "/api/entries?year=2025&month=5", nil)
	doJSON(t, s, http.MethodGet, "/api/dashboard?year=2025&month=5", nil)

	rec := doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/send", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send: status %d body %s", rec.Code, rec.Body.String())
	}
	var sent entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sent.Status != "sent" || sent.InvoiceSentDate == "" {
		t.Fatalf("unexpected sent entry: %+v", sent)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/pay", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay: status %d", rec.Code)
	}
	var paid entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &paid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if paid.Status != "paid" || !paid.AmountPaid.Equal(paid.AmountGross) {
		t.Fatalf("unexpected paid entry: %+v", paid)
	}

	// The dashboard must see the payment despite the earlier cache fill.
	rec = doJSON(t, s, http.MethodGet, "/api/dashboard?year=2025&month=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d", rec.Code)
	}
	var report core.KPIReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !report.TotalPaid.Equal(core.MoneyFromCents(250000)) {
		t.Fatalf("stale dashboard after payment: %+v", report)
	}
}

func TestSetStatusRegressionConflict(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")
	doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/pay", nil)

	rec := doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/status", map[string]string{"status": "done"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDuplicateEntry(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")
	doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/pay", nil)

	rec := doJSON(t, s, http.MethodPost, "/api/entries/"+created.ID+"/duplicate", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate: status %d", rec.Code)
	}
	var dup entryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &dup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dup.ID == created.ID || dup.Status != "done" {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	if dup.Date != core.Today(time.Now()).ISO() {
		t.Fatalf("duplicate must be dated today, got %s", dup.Date)
	}
	if !dup.AmountPaid.IsZero() || dup.PaidDate != "" || dup.InvoiceSentDate != "" {
		t.Fatalf("duplicate must reset payment tracking: %+v", dup)
	}
}

func TestUpdateEntryMovesMonths(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")

	// warm both month caches
	doJSON(t, s, http.MethodGet, "/api/entries?year=2025&month=5", nil)
	doJSON(t, s, http.MethodGet, "/api/entries?year=2025&month=6", nil)

	rec := doJSON(t, s, http.MethodPut, "/api/entries/"+created.ID, map[string]any{
		"date":        "2025-06-15",
		"description": "wedding gig",
		"client":      "Levi family",
		"amountGross": 2500.0,
		"vatType":     "tax-inclusive",
		"status":      "done",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	for month, want := range map[int]int{5: 0, 6: 1} {
		rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/entries?year=2025&month=%d", month), nil)
		var resp struct {
			Entries []entryResponse `json:"entries"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Entries) != want {
			t.Fatalf("month %d: expected %d entries, got %d", month, want, len(resp.Entries))
		}
	}
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer()
	created := createTestEntry(t, s, "2025-05-01")

	rec := doJSON(t, s, http.MethodDelete, "/api/entries/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/entries/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestClients(t *testing.T) {
	s := newTestServer()
	createTestEntry(t, s, "2025-05-01")

	rec := doJSON(t, s, http.MethodGet, "/api/clients", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clients: status %d", rec.Code)
	}
	var resp struct {
		Clients []string `json:"clients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Clients) != 1 || resp.Clients[0] != "Levi family" {
		t.Fatalf("unexpected clients: %v", resp.Clients)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer()
	createTestEntry(t, s, "2025-05-01")

	rec := doJSON(t, s, http.MethodGet, "/api/export.csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\ufeff") {
		t.Fatalf("export must carry a BOM")
	}
	if !strings.Contains(body, "wedding gig") {
		t.Fatalf("export missing entry:\n%s", body)
	}
}

func TestCalendarEventsUnconfigured(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/api/calendar/events?year=2025&month=5", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer()
	rec := doJSON(t, s, http.MethodPut, "/api/entries", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}
}

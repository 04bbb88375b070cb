package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gigbook/internal/calendar"
	"gigbook/internal/core"
	"gigbook/internal/export"
)

// handleEntries serves the month listing and entry creation.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.createEntry(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	today := core.Today(time.Now())

	entries, err := s.monthEntries(r, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Year    int             `json:"year"`
		Month   int             `json:"month"`
		Entries []entryResponse `json:"entries"`
	}{Year: year, Month: month, Entries: toEntryResponses(entries, today)})
}

// monthEntries reads one month of entries through the LRU cache.
func (s *Server) monthEntries(r *http.Request, year, month int) ([]core.IncomeEntry, error) {
	key := monthKey(year, month)
	if entries, found := s.entriesCache.Get(key); found {
		slog.DebugContext(r.Context(), "Entries cache hit", "year", year, "month", month)
		result := make([]core.IncomeEntry, len(entries))
		copy(result, entries)
		return result, nil
	}

	entries, err := s.store.ListEntries(r.Context(), year, month)
	if err != nil {
		return nil, fmt.Errorf("list entries (year=%d, month=%d): %w", year, month, err)
	}
	s.entriesCache.Set(key, entries)
	return entries, nil
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.entries.CreateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateCaches(created.Date.Year(), created.Date.Month())
	writeJSON(w, http.StatusCreated, toEntryResponse(created, core.Today(time.Now())))
}

// handleEntryByID routes /api/entries/{id} and the transition subpaths
// /api/entries/{id}/{send|pay|status|duplicate}.
func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/entries/"), "/")
	parts := strings.Split(rest, "/")
	if rest == "" || len(parts) > 2 {
		http.NotFound(w, r)
		return
	}

	id := parts[0]
	if len(parts) == 2 {
		s.handleTransition(w, r, id, parts[1])
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getEntry(w, r, id)
	case http.MethodPut:
		s.updateEntry(w, r, id)
	case http.MethodDelete:
		s.deleteEntry(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request, id string) {
	entry, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry, core.Today(time.Now())))
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request, id string) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry.ID = id

	// The previous month bucket also goes stale when the date moves.
	previous, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.entries.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateCaches(previous.Date.Year(), previous.Date.Month())
	s.invalidateCaches(updated.Date.Year(), updated.Date.Month())
	writeJSON(w, http.StatusOK, toEntryResponse(updated, core.Today(time.Now())))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, id string) {
	entry, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.entries.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateCaches(entry.Date.Year(), entry.Date.Month())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, id, action string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	today := core.Today(time.Now())
	var (
		entry core.IncomeEntry
		err   error
	)
	switch action {
	case "send":
		entry, err = s.entries.MarkInvoiceSent(r.Context(), id, today)
	case "pay":
		entry, err = s.entries.MarkAsPaid(r.Context(), id, today)
	case "status":
		var req struct {
			Status string `json:"status"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		entry, err = s.entries.SetStatus(r.Context(), id, core.Status(req.Status), today)
	case "duplicate":
		entry, err = s.entries.Duplicate(r.Context(), id, today)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateCaches(entry.Date.Year(), entry.Date.Month())
	status := http.StatusOK
	if action == "duplicate" {
		status = http.StatusCreated
	}
	writeJSON(w, status, toEntryResponse(entry, today))
}

// handleDashboard serves the month KPI report.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	year, month := parseYearMonth(r)
	today := core.Today(time.Now())
	key := monthKey(year, month)

	if report, found := s.kpiCache.Get(key); found {
		slog.DebugContext(r.Context(), "KPI cache hit", "year", year, "month", month)
		writeJSON(w, http.StatusOK, report)
		return
	}

	report, err := s.store.ReadKPIs(r.Context(), year, month, today)
	if err != nil {
		writeError(w, r, fmt.Errorf("read KPIs (year=%d, month=%d): %w", year, month, err))
		return
	}
	s.kpiCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

// handleClients serves distinct client names for autocomplete.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	clients, err := s.store.ListClients(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if clients == nil {
		clients = []string{}
	}
	writeJSON(w, http.StatusOK, struct {
		Clients []string `json:"clients"`
	}{Clients: clients})
}

// handleExportCSV streams a CSV download. With year/month parameters it
// exports that month, otherwise every entry.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var (
		entries []core.IncomeEntry
		err     error
	)
	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		year, month := parseYearMonth(r)
		entries, err = s.monthEntries(r, year, month)
	} else {
		entries, err = s.store.ListAllEntries(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	today := core.Today(time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(today)+`"`)
	if err := export.WriteCSV(w, entries); err != nil {
		// Headers are gone at this point, log and give up.
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

// handleCalendarEvents previews a month of calendar events with their draft
// entries. Returns 503 when no calendar is configured.
func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.events == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "calendar import not configured"})
		return
	}

	year, month := parseYearMonth(r)
	events, err := s.events.ListEventsForMonth(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrAuth) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "calendar credentials rejected"})
			return
		}
		writeError(w, r, err)
		return
	}

	today := core.Today(time.Now())
	out := make([]calendarEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, calendarEventResponse{
			ID:    ev.ID,
			Title: ev.Title,
			Start: ev.Start.Format(time.RFC3339),
			End:   ev.End.Format(time.RFC3339),
			Draft: toEntryResponse(calendar.DraftEntry(ev), today),
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Year   int                     `json:"year"`
		Month  int                     `json:"month"`
		Events []calendarEventResponse `json:"events"`
	}{Year: year, Month: month, Events: out})
}

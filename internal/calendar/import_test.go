package calendar

import (
	"testing"
	"time"

	"gigbook/internal/core"
)

func TestDraftEntry(t *testing.T) {
	ev := Event{
		ID:    "ev-1",
		Title: "Jazz trio at Ha'Ezor",
		Start: time.Date(2025, 6, 20, 21, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 20, 23, 30, 0, 0, time.UTC),
	}

	draft := DraftEntry(ev)
	if draft.Date.ISO() != "2025-06-20" {
		t.Fatalf("expected start date, got %q", draft.Date.ISO())
	}
	if draft.Description != "Jazz trio at Ha'Ezor" {
		t.Fatalf("expected title as description, got %q", draft.Description)
	}
	if draft.Status != core.StatusDone {
		t.Fatalf("expected done status, got %q", draft.Status)
	}
	if !draft.AmountGross.IsZero() || !draft.AmountPaid.IsZero() {
		t.Fatalf("amounts must start at zero")
	}
	if draft.ID != "" || draft.Client != "" {
		t.Fatalf("id and client must be left for the user")
	}
}

func TestDraftEntriesPreservesOrder(t *testing.T) {
	events := []Event{
		{ID: "a", Title: "first", Start: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "b", Title: "second", Start: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)},
	}
	drafts := DraftEntries(events)
	if len(drafts) != 2 || drafts[0].Description != "first" || drafts[1].Description != "second" {
		t.Fatalf("unexpected drafts: %+v", drafts)
	}
}

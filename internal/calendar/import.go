package calendar

import (
	"context"
	"time"

	"gigbook/internal/core"
)

// Event is the slice of a calendar event the import flow needs.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// EventLister fetches candidate events for one month.
type EventLister interface {
	ListEventsForMonth(ctx context.Context, year, month int) ([]Event, error)
}

// DraftEntry converts an event into an income entry draft: the title becomes
// the description, the start date becomes the entry date. Amounts stay zero
// and the client stays empty for the user to fill in before saving.
func DraftEntry(ev Event) core.IncomeEntry {
	return core.IncomeEntry{
		Date:        core.Today(ev.Start),
		Description: ev.Title,
		AmountGross: core.Zero,
		AmountPaid:  core.Zero,
		VatType:     core.VatInclusive,
		Status:      core.StatusDone,
	}
}

// DraftEntries maps all events, preserving order.
func DraftEntries(events []Event) []core.IncomeEntry {
	drafts := make([]core.IncomeEntry, 0, len(events))
	for _, ev := range events {
		drafts = append(drafts, DraftEntry(ev))
	}
	return drafts
}

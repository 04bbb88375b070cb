package core

import "sort"

// DefaultOverdueThresholdDays is how long a sent invoice may remain unpaid
// before it counts as overdue.
const DefaultOverdueThresholdDays = 30

// EffectiveStatus computes the displayed lifecycle stage of an entry.
// A stored sent or paid status wins unconditionally. Otherwise a job whose
// date has not yet passed is not actionable (StatusNone); once the date is
// strictly in the past it implicitly becomes done. The entry's date equal
// to today counts as not past.
func EffectiveStatus(e IncomeEntry, today Date) Status {
	if e.Status == StatusSent || e.Status == StatusPaid {
		return e.Status
	}
	if !e.Date.Before(today.Time) {
		return StatusNone
	}
	return StatusDone
}

// DaysSince returns the whole number of days from one calendar date to
// another. Dates are compared at midnight, so the result is exact.
func DaysSince(from, to Date) int {
	diff := to.Sub(from.Time)
	return int(diff.Hours() / 24)
}

// IsOverdue reports whether an invoice was sent more than thresholdDays ago
// and the entry is still not paid. Entries without a recorded sent date are
// never overdue, whatever their status claims.
func IsOverdue(e IncomeEntry, today Date, thresholdDays int) bool {
	if e.Status != StatusSent || e.InvoiceSentDate.IsEmpty() {
		return false
	}
	return DaysSince(e.InvoiceSentDate, today) > thresholdDays
}

// InMonth reports whether the entry's date falls inside the calendar month.
func InMonth(e IncomeEntry, year, month int) bool {
	return e.Date.Year() == year && e.Date.Month() == month
}

// FilterByMonth returns the entries dated within the given calendar month.
func FilterByMonth(entries []IncomeEntry, year, month int) []IncomeEntry {
	var out []IncomeEntry
	for _, e := range entries {
		if InMonth(e, year, month) {
			out = append(out, e)
		}
	}
	return out
}

// UniqueClients returns the distinct client names, sorted.
func UniqueClients(entries []IncomeEntry) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		if e.Client == "" {
			continue
		}
		if _, ok := seen[e.Client]; ok {
			continue
		}
		seen[e.Client] = struct{}{}
		out = append(out, e.Client)
	}
	sort.Strings(out)
	return out
}

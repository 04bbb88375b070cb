// Package ledger defines the outbound ports for the entry store.
// Adapters live in internal/storage (SQLite) and internal/ledger/memory.
package ledger

import (
	"context"

	"gigbook/internal/core"
)

type (
	EntryWriter interface {
		// CreateEntry persists a new entry and returns it with its
		// store-assigned id and timestamps.
		CreateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error)
	}

	EntryReader interface {
		// GetEntry returns core.ErrEntryNotFound for an unknown id.
		GetEntry(ctx context.Context, id string) (core.IncomeEntry, error)
		// ListEntries returns the entries dated within the calendar month,
		// ordered by date then creation time.
		ListEntries(ctx context.Context, year, month int) ([]core.IncomeEntry, error)
		// ListAllEntries returns every entry, newest date first.
		ListAllEntries(ctx context.Context) ([]core.IncomeEntry, error)
	}

	EntryMutator interface {
		// UpdateEntry overwrites the stored entry in a single write.
		UpdateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error)
		// DeleteEntry removes the entry unconditionally.
		DeleteEntry(ctx context.Context, id string) error
	}

	ClientLister interface {
		// ListClients returns distinct client names, sorted, for autocomplete.
		ListClients(ctx context.Context) ([]string, error)
	}

	// KPIReader provides the precomputed dashboard aggregates. Its results
	// must match core.ComputeKPIs over the same data.
	KPIReader interface {
		ReadKPIs(ctx context.Context, year, month int, today core.Date) (core.KPIReport, error)
	}
)

// Store is the full persistence contract for income entries.
type Store interface {
	EntryWriter
	EntryReader
	EntryMutator
	ClientLister
	KPIReader
}

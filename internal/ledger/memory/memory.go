// Package memory is an in-memory entry store used by tests and the
// dev backend. It mirrors the SQLite repository's contract, including
// ordering and not-found semantics.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]core.IncomeEntry
	nextID  int
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{entries: make(map[string]core.IncomeEntry)}
}

func (s *Store) CreateEntry(_ context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = fmt.Sprintf("mem-%d", s.nextID)
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) GetEntry(_ context.Context, id string) (core.IncomeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return core.IncomeEntry{}, core.ErrEntryNotFound
	}
	return e, nil
}

func (s *Store) ListEntries(_ context.Context, year, month int) ([]core.IncomeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.IncomeEntry
	for _, e := range s.entries {
		if core.InMonth(e, year, month) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) ListAllEntries(_ context.Context) ([]core.IncomeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.IncomeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) UpdateEntry(_ context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.entries[e.ID]
	if !ok {
		return core.IncomeEntry{}, core.ErrEntryNotFound
	}
	e.CreatedAt = prev.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	s.entries[e.ID] = e
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return core.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) ListClients(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]core.IncomeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	return core.UniqueClients(all), nil
}

func (s *Store) ReadKPIs(ctx context.Context, year, month int, today core.Date) (core.KPIReport, error) {
	all, err := s.ListAllEntries(ctx)
	if err != nil {
		return core.KPIReport{}, err
	}
	return core.ComputeKPIs(all, year, month, today), nil
}

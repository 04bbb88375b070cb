// Package services orchestrates entry operations across the store and the
// change feed.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"gigbook/internal/amqp"
	"gigbook/internal/core"
	"gigbook/internal/ledger"
)

// EntryService applies lifecycle rules and persists the result. Every
// mutation is validated first, written as a single store operation, and
// then announced on the change feed. Publish failures never fail the
// request: the entry is already safe in the store and the backup worker
// catches up on its periodic snapshot.
type EntryService struct {
	store      ledger.Store
	amqpClient *amqp.Client
}

func NewEntryService(store ledger.Store, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// CreateEntry persists a new entry. Missing lifecycle fields get the
// defaults of freshly logged work: done status, nothing paid.
func (s *EntryService) CreateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if e.Status == core.StatusNone {
		e.Status = core.StatusDone
	}
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	created, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("create entry: %w", err)
	}

	s.publishChange(ctx, created.ID, amqp.OpUpsert)
	return created, nil
}

// UpdateEntry overwrites an existing entry with edited fields.
func (s *EntryService) UpdateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	updated, err := s.store.UpdateEntry(ctx, e)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update entry: %w", err)
	}

	s.publishChange(ctx, updated.ID, amqp.OpUpsert)
	return updated, nil
}

// MarkInvoiceSent transitions an entry to sent. The sent date is recorded
// only on the first call.
func (s *EntryService) MarkInvoiceSent(ctx context.Context, id string, today core.Date) (core.IncomeEntry, error) {
	return s.transition(ctx, id, func(e core.IncomeEntry) (core.IncomeEntry, error) {
		return core.MarkInvoiceSent(e, today), nil
	})
}

// MarkAsPaid transitions an entry to paid, assuming full payment.
func (s *EntryService) MarkAsPaid(ctx context.Context, id string, today core.Date) (core.IncomeEntry, error) {
	return s.transition(ctx, id, func(e core.IncomeEntry) (core.IncomeEntry, error) {
		return core.MarkAsPaid(e, today), nil
	})
}

// SetStatus applies a generic status transition with the same side effects
// as the dedicated helpers. Regression from paid is rejected.
func (s *EntryService) SetStatus(ctx context.Context, id string, status core.Status, today core.Date) (core.IncomeEntry, error) {
	return s.transition(ctx, id, func(e core.IncomeEntry) (core.IncomeEntry, error) {
		return core.SetStatus(e, status, today)
	})
}

// Duplicate re-logs an existing job as a fresh entry dated today.
func (s *EntryService) Duplicate(ctx context.Context, id string, today core.Date) (core.IncomeEntry, error) {
	src, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("duplicate entry: %w", err)
	}

	created, err := s.store.CreateEntry(ctx, core.Duplicate(src, today))
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("duplicate entry: %w", err)
	}

	s.publishChange(ctx, created.ID, amqp.OpUpsert)
	return created, nil
}

// DeleteEntry removes an entry unconditionally.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.publishChange(ctx, id, amqp.OpDelete)
	return nil
}

func (s *EntryService) transition(ctx context.Context, id string, apply func(core.IncomeEntry) (core.IncomeEntry, error)) (core.IncomeEntry, error) {
	e, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("load entry for transition: %w", err)
	}

	next, err := apply(e)
	if err != nil {
		return core.IncomeEntry{}, err
	}

	updated, err := s.store.UpdateEntry(ctx, next)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("persist transition: %w", err)
	}

	s.publishChange(ctx, updated.ID, amqp.OpUpsert)
	return updated, nil
}

func (s *EntryService) publishChange(ctx context.Context, id, op string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishEntryChange(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry change",
			"id", id, "op", op, "error", err)
	}
}

// Close releases the store and AMQP connections.
func (s *EntryService) Close() error {
	var errs []error

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"gigbook/internal/core"
	"gigbook/internal/ledger/memory"
)

func newService() *EntryService {
	return NewEntryService(memory.New(), nil)
}

func draft(date core.Date) core.IncomeEntry {
	return core.IncomeEntry{
		Date:        date,
		Description: "club set",
		Client:      "Blue Note",
		AmountGross: core.MoneyFromCents(75000),
		VatType:     core.VatInclusive,
	}
}

func TestCreateEntryDefaults(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateEntry(ctx, draft(core.NewDate(2025, 5, 1)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != core.StatusDone {
		t.Fatalf("expected default done status, got %q", created.Status)
	}
	if !created.AmountPaid.IsZero() {
		t.Fatalf("expected zero amountPaid, got %s", created.AmountPaid)
	}
}

func TestCreateEntryValidationBeforePersist(t *testing.T) {
	svc := newService()
	bad := draft(core.NewDate(2025, 5, 1))
	bad.Description = ""
	if _, err := svc.CreateEntry(context.Background(), bad); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkInvoiceSentTwiceKeepsFirstDate(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	created, _ := svc.CreateEntry(ctx, draft(core.NewDate(2025, 5, 1)))

	first, err := svc.MarkInvoiceSent(ctx, created.ID, core.NewDate(2025, 5, 10))
	if err != nil || first.InvoiceSentDate.ISO() != "2025-05-10" {
		t.Fatalf("first send: %+v (err=%v)", first, err)
	}
	second, err := svc.MarkInvoiceSent(ctx, created.ID, core.NewDate(2025, 5, 25))
	if err != nil {
		t.Fatalf("second send: %v", err)
	}
	if second.InvoiceSentDate.ISO() != "2025-05-10" {
		t.Fatalf("re-sending reset the sent date to %q", second.InvoiceSentDate.ISO())
	}
}

func TestMarkAsPaid(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	created, _ := svc.CreateEntry(ctx, draft(core.NewDate(2025, 5, 1)))

	paid, err := svc.MarkAsPaid(ctx, created.ID, core.NewDate(2025, 5, 20))
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != core.StatusPaid || !paid.AmountPaid.Equal(paid.AmountGross) {
		t.Fatalf("expected full payment, got %+v", paid)
	}
	if paid.PaidDate.ISO() != "2025-05-20" {
		t.Fatalf("expected paid date set, got %q", paid.PaidDate.ISO())
	}
	if paid.Date.ISO() != "2025-05-01" || paid.Description != "club set" {
		t.Fatalf("unrelated fields must be untouched")
	}
}

func TestSetStatusForbidsRegressionFromPaid(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	created, _ := svc.CreateEntry(ctx, draft(core.NewDate(2025, 5, 1)))
	_, _ = svc.MarkAsPaid(ctx, created.ID, core.NewDate(2025, 5, 20))

	if _, err := svc.SetStatus(ctx, created.ID, core.StatusDone, core.NewDate(2025, 5, 21)); !errors.Is(err, core.ErrStatusRegression) {
		t.Fatalf("expected regression error, got %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	created, _ := svc.CreateEntry(ctx, draft(core.NewDate(2025, 5, 1)))
	_, _ = svc.MarkAsPaid(ctx, created.ID, core.NewDate(2025, 5, 20))

	today := core.NewDate(2025, 6, 1)
	dup, err := svc.Duplicate(ctx, created.ID, today)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if dup.ID == created.ID || dup.ID == "" {
		t.Fatalf("duplicate must get a fresh id, got %q", dup.ID)
	}
	if dup.Date.ISO() != "2025-06-01" || dup.Status != core.StatusDone {
		t.Fatalf("expected re-logged draft, got %+v", dup)
	}
	if !dup.AmountPaid.IsZero() || !dup.InvoiceSentDate.IsEmpty() || !dup.PaidDate.IsEmpty() {
		t.Fatalf("duplicate must reset payment tracking, got %+v", dup)
	}
}

func TestMutationsOnMissingID(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	today := core.NewDate(2025, 6, 1)

	if _, err := svc.MarkAsPaid(ctx, "missing", today); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("mark paid: expected not found, got %v", err)
	}
	if _, err := svc.MarkInvoiceSent(ctx, "missing", today); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("mark sent: expected not found, got %v", err)
	}
	if _, err := svc.Duplicate(ctx, "missing", today); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("duplicate: expected not found, got %v", err)
	}
	if err := svc.DeleteEntry(ctx, "missing"); !errors.Is(err, core.ErrEntryNotFound) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
}

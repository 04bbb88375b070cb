package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gigbook/internal/core"
)

// ReadKPIs runs the targeted aggregate queries behind the dashboard.
// The semantics mirror core.ComputeKPIs exactly; the repository tests
// assert the two stay in agreement.
//
// The independent aggregates run concurrently, each on its own
// connection from the pool.
func (r *SQLiteRepository) ReadKPIs(ctx context.Context, year, month int, today core.Date) (core.KPIReport, error) {
	var report core.KPIReport

	start, end := monthBounds(year, month)
	prevYear, prevMonth := core.PreviousMonth(year, month)
	prevStart, prevEnd := monthBounds(prevYear, prevMonth)
	todayISO := today.ISO()
	// strict: sent more than threshold days ago
	overdueBefore := core.NewDate(today.Year(), today.Month(), today.Day()-core.DefaultOverdueThresholdDays).ISO()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var grossCents int64
		err := r.db.QueryRowContext(gctx, `
			SELECT COALESCE(SUM(amount_gross_cents), 0), COUNT(*)
			FROM income_entries
			WHERE date >= ? AND date <= ?`,
			start, end).Scan(&grossCents, &report.ThisMonthCount)
		if err != nil {
			return fmt.Errorf("month totals: %w", err)
		}
		report.ThisMonth = core.MoneyFromCents(grossCents)
		return nil
	})

	g.Go(func() error {
		var paidCents int64
		err := r.db.QueryRowContext(gctx, `
			SELECT COALESCE(SUM(amount_paid_cents), 0)
			FROM income_entries
			WHERE date >= ? AND date <= ? AND status = ?`,
			start, end, string(core.StatusPaid)).Scan(&paidCents)
		if err != nil {
			return fmt.Errorf("month paid total: %w", err)
		}
		report.TotalPaid = core.MoneyFromCents(paidCents)
		return nil
	})

	g.Go(func() error {
		var outstandingCents int64
		err := r.db.QueryRowContext(gctx, `
			SELECT COALESCE(SUM(amount_gross_cents - amount_paid_cents), 0), COUNT(*)
			FROM income_entries
			WHERE status = ?`,
			string(core.StatusSent)).Scan(&outstandingCents, &report.InvoicedCount)
		if err != nil {
			return fmt.Errorf("outstanding: %w", err)
		}
		report.Outstanding = core.MoneyFromCents(outstandingCents)
		return nil
	})

	g.Go(func() error {
		var readyCents int64
		err := r.db.QueryRowContext(gctx, `
			SELECT COALESCE(SUM(amount_gross_cents), 0), COUNT(*)
			FROM income_entries
			WHERE status NOT IN (?, ?) AND date < ?`,
			string(core.StatusSent), string(core.StatusPaid), todayISO).
			Scan(&readyCents, &report.ReadyToInvoiceCount)
		if err != nil {
			return fmt.Errorf("ready to invoice: %w", err)
		}
		report.ReadyToInvoice = core.MoneyFromCents(readyCents)
		return nil
	})

	g.Go(func() error {
		err := r.db.QueryRowContext(gctx, `
			SELECT COUNT(*)
			FROM income_entries
			WHERE status = ? AND invoice_sent_date != '' AND invoice_sent_date < ?`,
			string(core.StatusSent), overdueBefore).Scan(&report.OverdueCount)
		if err != nil {
			return fmt.Errorf("overdue count: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var prevPaidCents int64
		err := r.db.QueryRowContext(gctx, `
			SELECT COALESCE(SUM(amount_paid_cents), 0)
			FROM income_entries
			WHERE date >= ? AND date <= ? AND status = ?`,
			prevStart, prevEnd, string(core.StatusPaid)).Scan(&prevPaidCents)
		if err != nil {
			return fmt.Errorf("previous month paid: %w", err)
		}
		report.PreviousMonthPaid = core.MoneyFromCents(prevPaidCents)
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.KPIReport{}, fmt.Errorf("read kpis (year=%d, month=%d): %w", year, month, err)
	}

	report.Trend = core.TrendPercent(report.TotalPaid, report.PreviousMonthPaid)
	return report, nil
}

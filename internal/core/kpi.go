package core

// KPIReport is the dashboard summary for a selected calendar month.
// Outstanding, ready-to-invoice, overdue and invoiced figures span all
// time; the this-month and paid figures are month-scoped.
type KPIReport struct {
	Outstanding         Money `json:"outstanding"`
	ReadyToInvoice      Money `json:"ready_to_invoice"`
	ReadyToInvoiceCount int   `json:"ready_to_invoice_count"`
	ThisMonth           Money `json:"this_month"`
	ThisMonthCount      int   `json:"this_month_count"`
	TotalPaid           Money `json:"total_paid"`
	PreviousMonthPaid   Money `json:"previous_month_paid"`
	Trend               Money `json:"trend"`
	OverdueCount        int   `json:"overdue_count"`
	InvoicedCount       int   `json:"invoiced_count"`
}

// PreviousMonth returns the calendar month before (year, month).
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// ComputeKPIs derives the dashboard summary from a full entry list.
// The storage layer's ReadKPIs runs the equivalent aggregate queries; the
// two must agree on semantics, so any change here needs a matching change
// there.
func ComputeKPIs(entries []IncomeEntry, year, month int, today Date) KPIReport {
	var r KPIReport
	prevYear, prevMonth := PreviousMonth(year, month)

	for _, e := range entries {
		eff := EffectiveStatus(e, today)

		switch eff {
		case StatusSent:
			r.Outstanding = r.Outstanding.Add(e.AmountGross.Sub(e.AmountPaid))
			r.InvoicedCount++
		case StatusDone:
			r.ReadyToInvoice = r.ReadyToInvoice.Add(e.AmountGross)
			r.ReadyToInvoiceCount++
		}

		if IsOverdue(e, today, DefaultOverdueThresholdDays) {
			r.OverdueCount++
		}

		if InMonth(e, year, month) {
			r.ThisMonth = r.ThisMonth.Add(e.AmountGross)
			r.ThisMonthCount++
			if eff == StatusPaid {
				r.TotalPaid = r.TotalPaid.Add(e.AmountPaid)
			}
		}

		if InMonth(e, prevYear, prevMonth) && eff == StatusPaid {
			r.PreviousMonthPaid = r.PreviousMonthPaid.Add(e.AmountPaid)
		}
	}

	r.Trend = TrendPercent(r.TotalPaid, r.PreviousMonthPaid)
	return r
}

// TrendPercent is the percentage change of paid income versus the previous
// month. A previous total of zero (or less) yields 0, which conflates "no
// prior data" with "no growth"; callers that care can inspect
// PreviousMonthPaid directly.
func TrendPercent(current, previous Money) Money {
	if !previous.IsPositive() {
		return Zero
	}
	return current.Sub(previous).Div(previous).Mul(MoneyFromCents(10000))
}

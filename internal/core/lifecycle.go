package core

// Lifecycle transitions are pure: they take an entry and today's date and
// return the mutated copy. Persistence is the caller's concern, so each
// transition is a single atomic write at the store.

// MarkInvoiceSent moves an entry to sent. The sent date is recorded only
// the first time, so re-sending an invoice does not reset the overdue
// clock.
func MarkInvoiceSent(e IncomeEntry, today Date) IncomeEntry {
	e.Status = StatusSent
	if e.InvoiceSentDate.IsEmpty() {
		e.InvoiceSentDate = today
	}
	return e
}

// MarkAsPaid moves an entry to paid, assuming full payment: amountPaid is
// set to amountGross and the paid date is always overwritten.
func MarkAsPaid(e IncomeEntry, today Date) IncomeEntry {
	e.Status = StatusPaid
	e.PaidDate = today
	e.AmountPaid = e.AmountGross
	return e
}

// SetStatus applies a generic transition with the same side effects as the
// dedicated helpers. Regressing away from paid is rejected; re-setting the
// current status is allowed and keeps the helpers' idempotence.
func SetStatus(e IncomeEntry, target Status, today Date) (IncomeEntry, error) {
	if err := target.Validate(); err != nil {
		return e, err
	}
	if e.Status == StatusPaid && target != StatusPaid {
		return e, ErrStatusRegression
	}
	switch target {
	case StatusSent:
		return MarkInvoiceSent(e, today), nil
	case StatusPaid:
		return MarkAsPaid(e, today), nil
	default:
		e.Status = target
		return e, nil
	}
}

// Duplicate copies an entry for re-logging a recurring job: fresh identity,
// dated today, back to the done state with nothing paid and no tracking
// dates.
func Duplicate(e IncomeEntry, today Date) IncomeEntry {
	dup := e
	dup.ID = ""
	dup.Date = today
	dup.Status = StatusDone
	dup.AmountPaid = Zero
	dup.InvoiceSentDate = Date{}
	dup.PaidDate = Date{}
	return dup
}

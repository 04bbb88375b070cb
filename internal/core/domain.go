package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// StatusDone marks work that was performed but not yet invoiced.
	StatusDone Status = "done"
	// StatusSent marks work whose invoice has been sent to the client.
	StatusSent Status = "sent"
	// StatusPaid marks work that has been paid in full.
	StatusPaid Status = "paid"
	// StatusNone is the derived pre-state for future-dated work.
	// It is never stored; see EffectiveStatus.
	StatusNone Status = ""
)

const (
	VatTaxable   VatType = "taxable"
	VatZeroRated VatType = "zero-rated"
	VatInclusive VatType = "tax-inclusive"
)

type (
	Status string

	VatType string

	Date struct {
		time.Time
	}

	// IncomeEntry is one recorded unit of work and its invoice lifecycle.
	IncomeEntry struct {
		ID              string
		Date            Date
		Description     string
		Client          string
		AmountGross     Money
		AmountPaid      Money
		VatType         VatType
		Status          Status
		InvoiceSentDate Date
		PaidDate        Date
		Category        string
		Notes           string
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyDescription = errors.New("empty description")
	ErrLongDescription  = errors.New("description too long (max 200 characters)")
	ErrEmptyClient      = errors.New("empty client")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidVatType   = errors.New("invalid vat type")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrStatusRegression = errors.New("cannot change status of a paid entry")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates t to its calendar date.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (for optional dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// ISO returns the date in YYYY-MM-DD form, or "" when unset.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month, 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (s Status) Validate() error {
	switch s {
	case StatusDone, StatusSent, StatusPaid:
		return nil
	}
	return ErrInvalidStatus
}

func (v VatType) Validate() error {
	switch v {
	case VatTaxable, VatZeroRated, VatInclusive:
		return nil
	}
	return ErrInvalidVatType
}

func (e IncomeEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrLongDescription
	}
	if len(strings.TrimSpace(e.Client)) == 0 {
		return ErrEmptyClient
	}
	if e.AmountGross.IsNegative() || e.AmountPaid.IsNegative() {
		return ErrNegativeAmount
	}
	if err := e.VatType.Validate(); err != nil {
		return err
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	return nil
}

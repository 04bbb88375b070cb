package http

import (
	"fmt"
	"time"

	"gigbook/internal/core"
)

// entryRequest is the JSON body for creating or updating an entry.
type entryRequest struct {
	Date            string     `json:"date"`
	Description     string     `json:"description"`
	Client          string     `json:"client"`
	AmountGross     core.Money `json:"amountGross"`
	AmountPaid      core.Money `json:"amountPaid"`
	VatType         string     `json:"vatType"`
	Status          string     `json:"status"`
	InvoiceSentDate string     `json:"invoiceSentDate"`
	PaidDate        string     `json:"paidDate"`
	Category        string     `json:"category"`
	Notes           string     `json:"notes"`
}

func (req entryRequest) toEntry() (core.IncomeEntry, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.IncomeEntry{}, err
	}
	e := core.IncomeEntry{
		Date:        date,
		Description: sanitizeInput(req.Description),
		Client:      sanitizeInput(req.Client),
		AmountGross: req.AmountGross,
		AmountPaid:  req.AmountPaid,
		VatType:     core.VatType(req.VatType),
		Status:      core.Status(req.Status),
		Category:    sanitizeInput(req.Category),
		Notes:       sanitizeInput(req.Notes),
	}
	if req.InvoiceSentDate != "" {
		if e.InvoiceSentDate, err = core.ParseDate(req.InvoiceSentDate); err != nil {
			return core.IncomeEntry{}, fmt.Errorf("invoiceSentDate: %w", err)
		}
	}
	if req.PaidDate != "" {
		if e.PaidDate, err = core.ParseDate(req.PaidDate); err != nil {
			return core.IncomeEntry{}, fmt.Errorf("paidDate: %w", err)
		}
	}
	return e, nil
}

// entryResponse is the JSON shape of one entry. EffectiveStatus and Overdue
// are derived against today at render time; VatAmount uses the configured
// VAT rate.
type entryResponse struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"`
	Weekday         string     `json:"weekday"`
	Description     string     `json:"description"`
	Client          string     `json:"client"`
	AmountGross     core.Money `json:"amountGross"`
	AmountPaid      core.Money `json:"amountPaid"`
	VatType         string     `json:"vatType"`
	VatAmount       core.Money `json:"vatAmount"`
	Status          string     `json:"status"`
	EffectiveStatus string     `json:"effectiveStatus"`
	Overdue         bool       `json:"overdue"`
	InvoiceSentDate string     `json:"invoiceSentDate,omitempty"`
	PaidDate        string     `json:"paidDate,omitempty"`
	Category        string     `json:"category,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
}

func toEntryResponse(e core.IncomeEntry, today core.Date) entryResponse {
	resp := entryResponse{
		ID:              e.ID,
		Date:            e.Date.ISO(),
		Weekday:         e.Date.Weekday().String(),
		Description:     e.Description,
		Client:          e.Client,
		AmountGross:     e.AmountGross,
		AmountPaid:      e.AmountPaid,
		VatType:         string(e.VatType),
		VatAmount:       core.VatAmount(e, core.DefaultVatRatePercent),
		Status:          string(e.Status),
		EffectiveStatus: string(core.EffectiveStatus(e, today)),
		Overdue:         core.IsOverdue(e, today, core.DefaultOverdueThresholdDays),
		InvoiceSentDate: e.InvoiceSentDate.ISO(),
		PaidDate:        e.PaidDate.ISO(),
		Category:        e.Category,
		Notes:           e.Notes,
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		resp.UpdatedAt = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toEntryResponses(entries []core.IncomeEntry, today core.Date) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e, today))
	}
	return out
}

// calendarEventResponse previews a calendar event with its draft entry.
type calendarEventResponse struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Start string        `json:"start"`
	End   string        `json:"end"`
	Draft entryResponse `json:"draft"`
}

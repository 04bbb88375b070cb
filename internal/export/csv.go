// Package export renders income entries as CSV for download and backup.
package export

import (
	"fmt"
	"io"
	"strings"

	"gigbook/internal/core"
)

// utf8BOM keeps spreadsheet tools from mangling non-Latin text.
const utf8BOM = "\ufeff"

var csvHeader = []string{
	"date",
	"weekday",
	"description",
	"amountGross",
	"amountPaid",
	"client",
	"status",
	"invoiceSentDate",
	"category",
}

// WriteCSV writes the entries as a BOM-prefixed CSV document. Every cell is
// quoted, including the header row.
func WriteCSV(w io.Writer, entries []core.IncomeEntry) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	if err := writeRow(w, csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		if err := writeRow(w, entryRow(e)); err != nil {
			return fmt.Errorf("writing entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func entryRow(e core.IncomeEntry) []string {
	return []string{
		e.Date.ISO(),
		e.Date.Weekday().String(),
		e.Description,
		e.AmountGross.String(),
		e.AmountPaid.String(),
		e.Client,
		string(e.Status),
		e.InvoiceSentDate.ISO(),
		e.Category,
	}
}

func writeRow(w io.Writer, cells []string) error {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// Filename returns the suggested download name for an export made today.
func Filename(today core.Date) string {
	return fmt.Sprintf("income-%s.csv", today.ISO())
}

package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the persistent entry store.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = `id, date, description, client, amount_gross_cents, amount_paid_cents,
	vat_type, status, invoice_sent_date, paid_date, category, notes, created_at, updated_at`

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	e.ID = newEntryID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO income_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date.ISO(), e.Description, e.Client,
		e.AmountGross.Cents(), e.AmountPaid.Cents(),
		string(e.VatType), string(e.Status),
		e.InvoiceSentDate.ISO(), e.PaidDate.ISO(),
		e.Category, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"date", e.Date.ISO(),
		"client", e.Client,
		"amount_gross", e.AmountGross.String())

	return e, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.IncomeEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM income_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.IncomeEntry{}, core.ErrEntryNotFound
		}
		return core.IncomeEntry{}, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, year, month int) ([]core.IncomeEntry, error) {
	start, end := monthBounds(year, month)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM income_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("list entries for %d-%02d: %w", year, month, err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *SQLiteRepository) ListAllEntries(ctx context.Context) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM income_entries
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.IncomeEntry) (core.IncomeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.IncomeEntry{}, err
	}

	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE income_entries SET
			date = ?, description = ?, client = ?,
			amount_gross_cents = ?, amount_paid_cents = ?,
			vat_type = ?, status = ?,
			invoice_sent_date = ?, paid_date = ?,
			category = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		e.Date.ISO(), e.Description, e.Client,
		e.AmountGross.Cents(), e.AmountPaid.Cents(),
		string(e.VatType), string(e.Status),
		e.InvoiceSentDate.ISO(), e.PaidDate.ISO(),
		e.Category, e.Notes, e.UpdatedAt, e.ID)
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update entry %s: %w", e.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.IncomeEntry{}, fmt.Errorf("update entry %s: rows affected: %w", e.ID, err)
	}
	if affected == 0 {
		return core.IncomeEntry{}, core.ErrEntryNotFound
	}

	return r.GetEntry(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM income_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %s: rows affected: %w", id, err)
	}
	if affected == 0 {
		return core.ErrEntryNotFound
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT client FROM income_entries
		WHERE client != ''
		ORDER BY client ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// newEntryID returns an opaque random identifier. Sixteen hex chars keep
// collisions out of reach for a single-user dataset.
func newEntryID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ent_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// monthBounds returns the first and last ISO dates of a calendar month.
func monthBounds(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.IncomeEntry, error) {
	var (
		e          core.IncomeEntry
		date       string
		grossCents int64
		paidCents  int64
		vatType    string
		status     string
		sentDate   string
		paidDate   string
	)
	err := row.Scan(&e.ID, &date, &e.Description, &e.Client,
		&grossCents, &paidCents, &vatType, &status,
		&sentDate, &paidDate, &e.Category, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return core.IncomeEntry{}, err
	}

	if e.Date, err = core.ParseDate(date); err != nil {
		return core.IncomeEntry{}, fmt.Errorf("entry %s: bad date %q", e.ID, date)
	}
	if sentDate != "" {
		if e.InvoiceSentDate, err = core.ParseDate(sentDate); err != nil {
			return core.IncomeEntry{}, fmt.Errorf("entry %s: bad invoice_sent_date %q", e.ID, sentDate)
		}
	}
	if paidDate != "" {
		if e.PaidDate, err = core.ParseDate(paidDate); err != nil {
			return core.IncomeEntry{}, fmt.Errorf("entry %s: bad paid_date %q", e.ID, paidDate)
		}
	}
	e.AmountGross = core.MoneyFromCents(grossCents)
	e.AmountPaid = core.MoneyFromCents(paidCents)
	e.VatType = core.VatType(vatType)
	e.Status = core.Status(status)
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]core.IncomeEntry, error) {
	var out []core.IncomeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

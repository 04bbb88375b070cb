// Package worker maintains on-disk CSV backups of the entry store, driven
// by the AMQP change feed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gigbook/internal/amqp"
	"gigbook/internal/core"
	"gigbook/internal/export"
	"gigbook/internal/ledger"
)

// BackupWorker rewrites a full CSV snapshot whenever an entry changes. The
// snapshot is written to a temp file and renamed so readers never see a
// partial backup.
type BackupWorker struct {
	store     ledger.EntryReader
	backupDir string
	now       func() time.Time
}

func NewBackupWorker(store ledger.EntryReader, backupDir string) *BackupWorker {
	return &BackupWorker{
		store:     store,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// HandleChangeMessage processes one entry-change message from AMQP. Both
// upserts and deletes trigger the same full snapshot, so replays and
// out-of-order deliveries are harmless.
func (w *BackupWorker) HandleChangeMessage(ctx context.Context, msg *amqp.EntryChangeMessage) error {
	slog.InfoContext(ctx, "Processing entry change",
		"id", msg.ID,
		"op", msg.Op)
	return w.Snapshot(ctx)
}

// Snapshot writes the current state of the store to <backupDir>/income-backup.csv.
func (w *BackupWorker) Snapshot(ctx context.Context) error {
	entries, err := w.store.ListAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries for backup: %w", err)
	}

	if err := os.MkdirAll(w.backupDir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	target := filepath.Join(w.backupDir, "income-backup.csv")
	tmp, err := os.CreateTemp(w.backupDir, "income-backup-*.csv")
	if err != nil {
		return fmt.Errorf("create temp backup: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := export.WriteCSV(tmp, entries); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace backup: %w", err)
	}

	slog.InfoContext(ctx, "Backup snapshot written",
		"path", target,
		"entries", len(entries))
	return nil
}

// SnapshotDated also writes a dated copy alongside the rolling snapshot,
// keeping one file per day.
func (w *BackupWorker) SnapshotDated(ctx context.Context) error {
	if err := w.Snapshot(ctx); err != nil {
		return err
	}

	entries, err := w.store.ListAllEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries for dated backup: %w", err)
	}
	today := core.Today(w.now())
	target := filepath.Join(w.backupDir, export.Filename(today))
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create dated backup: %w", err)
	}
	defer f.Close()
	if err := export.WriteCSV(f, entries); err != nil {
		return fmt.Errorf("write dated backup: %w", err)
	}
	slog.InfoContext(ctx, "Dated backup written", "path", target)
	return nil
}

// RunPeriodic writes a dated snapshot on startup and then at every interval,
// until the context is cancelled. It complements the change feed in case
// messages are lost.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) {
	if err := w.SnapshotDated(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial backup failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.SnapshotDated(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic backup failed", "error", err)
			}
		}
	}
}

// Package logsync mirrors the JSONL logbook into Postgres, skipping day
// files whose content has not changed since the last run.
package logsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/storage"
)

// EntryStore receives mirrored entries.
type EntryStore interface {
	InsertEntries(ctx context.Context, rows []storage.EntryRow) (int64, error)
}

// Stats tracks sync progress.
type Stats struct {
	FilesTotal   int
	FilesSynced  int
	FilesSkipped int
	FilesErrored int

	EntriesSent     int
	EntriesInserted int64
	EntriesInvalid  int
}

// Syncer walks a logbook and sends new or changed day files to a store.
type Syncer struct {
	root   string
	store  EntryStore
	state  *StateDB
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a Syncer. In dry-run mode files are read and counted but
// nothing is sent and no state is recorded; store may then be nil.
func New(root string, store EntryStore, state *StateDB, dryRun bool, log *slog.Logger) *Syncer {
	return &Syncer{root: root, store: store, state: state, dryRun: dryRun, log: log}
}

// Run executes one pass over the logbook. Per-file failures are logged and
// counted; only cancellation or an unreadable logbook stop the run.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	s.stats = Stats{}
	err := logbook.Walk(s.root, func(path, rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.stats.FilesTotal++
		s.syncFile(ctx, path, rel)
		return nil
	})
	if err != nil {
		return &s.stats, fmt.Errorf("syncing %s: %w", s.root, err)
	}
	return &s.stats, nil
}

func (s *Syncer) syncFile(ctx context.Context, path, rel string) {
	info, err := os.Stat(path)
	if err != nil {
		s.log.Warn("stat failed", "file", rel, "error", err)
		s.stats.FilesErrored++
		return
	}
	hash, err := HashFile(path)
	if err != nil {
		s.log.Warn("hash failed", "file", rel, "error", err)
		s.stats.FilesErrored++
		return
	}

	if !s.dryRun {
		synced, err := s.state.IsSynced(rel, info.Size(), hash)
		if err != nil {
			s.log.Warn("state check failed", "file", rel, "error", err)
			s.stats.FilesErrored++
			return
		}
		if synced {
			s.stats.FilesSkipped++
			return
		}
	}

	records, err := logbook.ReadFile(path, s.log)
	if err != nil {
		s.log.Warn("read failed", "file", rel, "error", err)
		s.stats.FilesErrored++
		return
	}

	rows := make([]storage.EntryRow, 0, len(records))
	for i := range records {
		row, err := storage.NewEntryRow(&records[i], rel)
		if err != nil {
			s.log.Warn("skipping entry", "file", rel, "error", err)
			s.stats.EntriesInvalid++
			continue
		}
		rows = append(rows, row)
	}
	s.stats.EntriesSent += len(rows)

	if s.dryRun {
		s.log.Info("dry run", "file", rel, "entries", len(rows))
		s.stats.FilesSynced++
		return
	}

	inserted, err := s.store.InsertEntries(ctx, rows)
	if err != nil {
		s.log.Error("insert failed", "file", rel, "error", err)
		s.stats.FilesErrored++
		return
	}
	s.stats.EntriesInserted += inserted

	if err := s.state.MarkSynced(rel, info.Size(), hash, len(rows)); err != nil {
		s.log.Warn("state update failed", "file", rel, "error", err)
	}
	s.stats.FilesSynced++
	s.log.Debug("synced", "file", rel, "entries", len(rows), "inserted", inserted)
}

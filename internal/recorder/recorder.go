// Package recorder ties parsing, the JSONL logbook, the optional Postgres
// mirror and git together behind one call per message.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/claude/workoutlog/internal/format"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/storage"
)

// EntryStore mirrors written records.
type EntryStore interface {
	InsertEntries(ctx context.Context, rows []storage.EntryRow) (int64, error)
}

// Committer records a written file in version control.
type Committer interface {
	Commit(ctx context.Context, path, message string) error
}

// Request is one message to record.
type Request struct {
	Message   string
	Source    string
	Reference time.Time // zero means now
	DryRun    bool
	NoCommit  bool
}

// Result describes what happened to a recorded message.
type Result struct {
	Record    *models.Record `json:"record"`
	Date      string         `json:"date"`
	Path      string         `json:"path"`
	DryRun    bool           `json:"dry_run"`
	Committed bool           `json:"committed"`
	Mirrored  bool           `json:"mirrored"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// Recorder writes parsed messages to a logbook.
type Recorder struct {
	book  *logbook.Writer
	store EntryStore
	git   Committer
	log   *slog.Logger
}

// New creates a Recorder. store and git may be nil.
func New(book *logbook.Writer, store EntryStore, git Committer, log *slog.Logger) *Recorder {
	return &Recorder{book: book, store: store, git: git, log: log}
}

// Root returns the logbook directory.
func (r *Recorder) Root() string { return r.book.Root() }

// Preview parses a message without writing anything.
func (r *Recorder) Preview(req Request) (*Result, error) {
	rec, date, err := parser.Parse(req.Message, req.Reference, req.Source)
	if err != nil {
		return nil, err
	}
	return &Result{Record: rec, Date: date.String(), Path: r.book.Path(date), DryRun: true}, nil
}

// Record parses and stores a message. Parse and write failures are
// returned; commit and mirror failures are logged and reported as warnings
// because the entry is already durable in the logbook.
func (r *Recorder) Record(ctx context.Context, req Request) (*Result, error) {
	if req.DryRun {
		return r.Preview(req)
	}

	rec, date, err := parser.Parse(req.Message, req.Reference, req.Source)
	if err != nil {
		return nil, err
	}
	res := &Result{Record: rec, Date: date.String()}

	var commit func(string) error
	if r.git != nil && !req.NoCommit {
		commit = func(path string) error {
			return r.git.Commit(ctx, path, format.CommitMessage(rec))
		}
	}

	path, err := r.book.Append(ctx, rec, date, commit)
	if path == "" {
		return nil, fmt.Errorf("writing entry: %w", err)
	}
	res.Path = path
	switch {
	case commit == nil:
	case err != nil:
		r.log.Warn("git commit failed", "file", path, "error", err)
		res.Warnings = append(res.Warnings, "git: "+err.Error())
	default:
		res.Committed = true
	}

	if r.store != nil {
		if err := r.mirror(ctx, rec, path); err != nil {
			r.log.Warn("mirror failed", "file", path, "error", err)
			res.Warnings = append(res.Warnings, "database: "+err.Error())
		} else {
			res.Mirrored = true
		}
	}

	r.log.Info("entry recorded", "type", rec.Type(), "name", rec.Name(), "date", res.Date, "source", rec.Source)
	return res, nil
}

func (r *Recorder) mirror(ctx context.Context, rec *models.Record, path string) error {
	rel, err := filepath.Rel(r.book.Root(), path)
	if err != nil {
		return err
	}
	row, err := storage.NewEntryRow(rec, filepath.ToSlash(rel))
	if err != nil {
		return err
	}
	_, err = r.store.InsertEntries(ctx, []storage.EntryRow{row})
	return err
}

// DayLog is every record logged for one calendar day.
type DayLog struct {
	Date    string          `json:"date"`
	Records []models.Record `json:"records"`
}

// Day reads the logbook file for date. A day without entries is empty, not
// an error.
func (r *Recorder) Day(date models.Date) (*DayLog, error) {
	records, err := logbook.ReadDay(r.book.Root(), date, r.log)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", date, err)
	}
	if records == nil {
		records = []models.Record{}
	}
	return &DayLog{Date: date.String(), Records: records}, nil
}

// IsUserError reports whether err came from bad input rather than from the
// system.
func IsUserError(err error) bool {
	var pe *parser.Error
	return errors.As(err, &pe)
}

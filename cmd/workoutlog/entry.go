package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/claude/workoutlog/internal/gitsync"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/claude/workoutlog/internal/sentry"
	"github.com/claude/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

type entryOptions struct {
	dryRun   bool
	date     string
	source   string
	noCommit bool
}

// newEntryCmd builds "log" or, when note is set, "note".
func (a *app) newEntryCmd(note bool) *cobra.Command {
	opts := &entryOptions{}

	cmd := &cobra.Command{
		Use:   "log MESSAGE",
		Short: "Log a workout entry",
		Long: `Log a workout entry.

Examples:
  workoutlog log "deadlift 405 5x2"
  workoutlog log "squat 315x5x3 rpe8 felt strong"
  workoutlog log "pull-up 20,20,25"
  workoutlog log "treadmill 10min 3.2mph incline15"

Date modifiers:
  workoutlog log "yesterday: squat 315x5x3"
  workoutlog log "2026-01-30: deadlift 405x1x5"

Options:
  workoutlog log "bench 225x5x3" --dry-run
  workoutlog log "squat 315x5x3" --date 2026-02-01
  workoutlog log "bench 225x5x3" --no-commit`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEntry(cmd.Context(), strings.Join(args, " "), note, opts)
		},
	}
	if note {
		cmd.Use = "note MESSAGE"
		cmd.Short = "Log a note entry"
		cmd.Long = `Log a note entry.

Examples:
  workoutlog note "Felt tired today"
  workoutlog note "Skipped workout due to illness"`
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse without writing to the logbook")
	cmd.Flags().StringVar(&opts.date, "date", "", "override date (YYYY-MM-DD), keeping the current time of day")
	cmd.Flags().StringVar(&opts.source, "source", "cli", "source identifier")
	cmd.Flags().BoolVar(&opts.noCommit, "no-commit", false, "skip git commit")
	return cmd
}

func (a *app) runEntry(ctx context.Context, text string, note bool, opts *entryOptions) error {
	message, typed := parser.Command(text, note)
	if typed {
		prefix := "/log"
		if strings.HasPrefix(message, "/note ") {
			prefix = "/note"
		}
		fmt.Fprintf(a.stderr, "Note: no need to include the '%s' prefix when using the CLI\n", prefix)
	}

	req := recorder.Request{
		Message:  message,
		Source:   opts.source,
		DryRun:   opts.dryRun,
		NoCommit: opts.noCommit || !a.cfg.Git.Commit,
	}
	if opts.date != "" {
		ref, err := parser.ReferenceOn(opts.date, time.Now())
		if err != nil {
			return err
		}
		req.Reference = ref
	}

	rec, closeStore := a.newRecorder(ctx, opts.dryRun, !req.NoCommit)
	defer closeStore()

	res, err := rec.Record(ctx, req)
	if err != nil {
		return err
	}

	if res.DryRun {
		data, err := json.MarshalIndent(res.Record, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		fmt.Fprintln(a.stdout, string(data))
		fmt.Fprintf(a.stdout, "\nDry run: would save to %s\n", res.Path)
		return nil
	}

	if res.Record.Type() == models.TypeNote {
		fmt.Fprintf(a.stdout, "Note logged to %s\n", res.Path)
	} else {
		fmt.Fprintf(a.stdout, "Logged to %s\n", res.Path)
	}
	if res.Committed {
		fmt.Fprintln(a.stdout, "Committed to git")
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(a.stderr, "Warning: %s\n", w)
		sentry.CaptureWarning(w, map[string]any{"path": res.Path}, a.log)
	}
	return nil
}

// newRecorder wires the logbook with git and, when configured, the
// Postgres mirror. Neither is needed for a dry run.
func (a *app) newRecorder(ctx context.Context, dryRun, commit bool) (*recorder.Recorder, func()) {
	book := logbook.NewWriter(a.cfg.Logbook.Root)
	if dryRun {
		return recorder.New(book, nil, nil, a.log), func() {}
	}

	var git recorder.Committer
	switch {
	case !commit:
	case gitsync.Available():
		git = gitsync.New(a.cfg.Git.Push, a.log)
	default:
		a.log.Warn("git not found, entries will not be committed")
	}

	var store recorder.EntryStore
	closeStore := func() {}
	if a.cfg.Database.Enabled() {
		db, err := storage.New(ctx, a.cfg.Database.DSN())
		if err != nil {
			a.log.Warn("database unavailable, skipping mirror", "error", err)
		} else {
			store = db
			closeStore = db.Close
		}
	}

	return recorder.New(book, store, git, a.log), closeStore
}

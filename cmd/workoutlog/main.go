// Command workoutlog records workout shorthand into the JSONL logbook.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/workoutlog/internal/config"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/claude/workoutlog/internal/sentry"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	dbDir      string
	verbose    bool

	cfg    *config.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "workoutlog",
		Short: "Log workouts to a JSONL logbook with git integration",
		Long: `workoutlog parses workout shorthand and appends it to a per-day JSONL
file under the logbook root (<root>/YYYY/MM/DD.jsonl), committing each
write to git.

Examples:
  workoutlog log "squat 315x5x3 rpe8 felt strong"
  workoutlog log "yesterday: pull-up 20,20,25"
  workoutlog note "Felt tired today"
  workoutlog show yesterday`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default: built-in settings)")
	root.PersistentFlags().StringVar(&a.dbDir, "db-dir", "", "logbook directory (default: ~/repos/fitness/db, or WORKOUT_LOGGER_DB)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		a.newEntryCmd(false),
		a.newEntryCmd(true),
		a.newFormatCmd(),
		a.newShowCmd(),
		a.newExercisesCmd(),
	)
	return root
}

func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbDir != "" {
		cfg.Logbook.Root = a.dbDir
	}
	a.cfg = cfg

	if _, err := sentry.Init(sentry.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     "workoutlog@" + Version,
	}, a.log); err != nil {
		a.log.Warn("error reporting disabled", "error", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	if recorder.IsUserError(err) {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		sentry.CaptureException(err, map[string]any{"args": os.Args[1:]}, slog.Default())
		sentry.Flush(2 * time.Second)
	}
	stop()
	os.Exit(1)
}

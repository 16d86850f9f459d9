package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/workoutlog/internal/config"
	"github.com/claude/workoutlog/internal/logsync"
	"github.com/claude/workoutlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "read and count entries but don't write to the database")
	reset := flag.Bool("reset", false, "forget previously synced files and resend everything")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("workoutlog-sync", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: database.host is required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(cfg.Logbook.Root)
	if err != nil || !info.IsDir() {
		log.Error("logbook directory not found", "path", cfg.Logbook.Root)
		os.Exit(1)
	}
	log.Info("using logbook", "path", cfg.Logbook.Root)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open state database
	state, err := logsync.OpenStateDB(cfg.Sync.StateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *reset && !*dryRun {
		if err := state.Forget(); err != nil {
			log.Error("failed to reset sync state", "error", err)
			os.Exit(1)
		}
		log.Info("sync state cleared")
	}

	// Connect database (nil in dry-run mode)
	var db *storage.DB
	var store logsync.EntryStore
	if !*dryRun {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Database.Migrations); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	} else {
		log.Info("DRY RUN mode: entries will be read and counted but not written")
	}

	var runID int64
	if db != nil {
		runID, err = db.InsertSyncRun(ctx, storage.SyncRun{Status: storage.SyncRunning})
		if err != nil {
			log.Warn("failed to record sync run", "error", err)
		}
	}

	start := time.Now()
	syncer := logsync.New(cfg.Logbook.Root, store, state, *dryRun, log)
	stats, runErr := syncer.Run(ctx)

	if runID != 0 {
		finishRun(db, runID, stats, runErr, time.Since(start), log)
	}

	printStats(stats)
	if runErr != nil {
		log.Error("sync failed", "error", runErr)
		os.Exit(1)
	}
	log.Info("sync complete")
}

// finishRun stores the outcome of a run. It uses a fresh context so an
// interrupted run is still recorded.
func finishRun(db *storage.DB, id int64, stats *logsync.Stats, runErr error, elapsed time.Duration, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ms := int(elapsed.Milliseconds())
	run := storage.SyncRun{
		Status:          storage.SyncSuccess,
		FilesTotal:      stats.FilesTotal,
		FilesSynced:     stats.FilesSynced,
		EntriesSent:     stats.EntriesSent,
		EntriesInserted: stats.EntriesInserted,
		DurationMs:      &ms,
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = storage.SyncError
		run.ErrorMessage = &msg
	}
	if err := db.UpdateSyncRun(ctx, id, run); err != nil {
		log.Warn("failed to update sync run", "id", id, "error", err)
	}
}

func printStats(stats *logsync.Stats) {
	fmt.Println()
	fmt.Println("=== Sync Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files synced:     %d\n", stats.FilesSynced)
	fmt.Printf("  Files skipped:    %d (unchanged)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Entries sent:     %d\n", stats.EntriesSent)
	fmt.Printf("  Entries inserted: %d\n", stats.EntriesInserted)
	if stats.EntriesInvalid > 0 {
		fmt.Printf("  Entries invalid:  %d\n", stats.EntriesInvalid)
	}
	fmt.Println()
}

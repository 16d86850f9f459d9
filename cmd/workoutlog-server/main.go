package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/workoutlog/internal/config"
	"github.com/claude/workoutlog/internal/gitsync"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/mcp"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/claude/workoutlog/internal/sentry"
	"github.com/claude/workoutlog/internal/server"
	"github.com/claude/workoutlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("workoutlog server starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(true); err != nil {
		log.Error("invalid server config", "error", err)
		os.Exit(1)
	}

	if _, err := sentry.Init(sentry.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     "workoutlog@" + Version,
	}, log); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer sentry.Flush(2 * time.Second)
	defer sentry.RecoverAndCapture(log)

	ctx := context.Background()

	// Optional Postgres mirror
	var store *storage.DB
	if cfg.Database.Enabled() {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Database.Migrations); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		store, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		log.Info("database connected")
	} else {
		log.Info("no database configured, mirror disabled")
	}

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Recorder: logbook + git + mirror
	var git recorder.Committer
	if cfg.Git.Commit {
		if gitsync.Available() {
			git = gitsync.New(cfg.Git.Push, log)
		} else {
			log.Warn("git not found, entries will not be committed")
		}
	}
	var entryStore recorder.EntryStore
	var queryStore server.Store
	if store != nil {
		entryStore, queryStore = store, store
	}
	rec := recorder.New(logbook.NewWriter(cfg.Logbook.Root), entryStore, git, log)
	log.Info("logbook ready", "root", cfg.Logbook.Root)

	// HTTP API and MCP endpoint
	srv := server.New(rec, queryStore, cfg.Auth.APIKey, log)
	mcpSrv := mcp.New(mcp.NewLocal(rec), Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "plain (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		defer sentry.RecoverAndCapture(log)
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/workoutlog/internal/config"
	"github.com/claude/workoutlog/internal/gitsync"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/mcp"
	"github.com/claude/workoutlog/internal/recorder"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (default: built-in settings)")
	remote := flag.String("remote", "", "workoutlog server URL (e.g. https://workoutlog.tail1234.ts.net); empty uses the local logbook")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var backend mcp.Backend
	if *remote != "" {
		backend = mcp.NewHTTPClient(*remote, cfg.Auth.APIKey)
		log.Info("using remote server", "url", *remote)
	} else {
		var git recorder.Committer
		if cfg.Git.Commit && gitsync.Available() {
			git = gitsync.New(cfg.Git.Push, log)
		}
		rec := recorder.New(logbook.NewWriter(cfg.Logbook.Root), nil, git, log)
		backend = mcp.NewLocal(rec)
		log.Info("using local logbook", "root", cfg.Logbook.Root)
	}

	s := mcp.New(backend, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}

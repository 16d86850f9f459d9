// Package gitsync commits logbook files to the git repository that holds
// them and optionally pushes to origin.
package gitsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepository is returned when the file is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// runFunc runs git with args in dir and returns its combined output.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Committer records logbook changes in git.
type Committer struct {
	push bool
	log  *slog.Logger
	run  runFunc
}

// New creates a Committer. When push is set, each commit is pushed to origin.
func New(push bool, log *slog.Logger) *Committer {
	return &Committer{push: push, log: log, run: runGit}
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Commit stages path and commits it with message. It returns
// ErrNotRepository when path is outside any work tree; other failures carry
// git's output.
func (c *Committer) Commit(ctx context.Context, path, message string) error {
	dir := filepath.Dir(path)
	file := filepath.Base(path)

	if _, err := c.run(ctx, dir, "rev-parse", "--is-inside-work-tree"); err != nil {
		return fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if _, err := c.run(ctx, dir, "add", "--", file); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if _, err := c.run(ctx, dir, "commit", "-m", message, "--", file); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	c.log.Debug("committed", "file", path, "message", message)

	if !c.push {
		return nil
	}
	if _, err := c.run(ctx, dir, "push", "origin"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	c.log.Debug("pushed", "file", path)
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w (stderr: %s)", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

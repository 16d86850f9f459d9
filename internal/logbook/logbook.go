// Package logbook stores records as append-only JSONL files laid out as
// <root>/YYYY/MM/DD.jsonl.
package logbook

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/claude/workoutlog/internal/models"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
	maxLine  = 1 << 20
)

// Path returns the day file for date under root.
func Path(root string, date models.Date) string {
	return filepath.Join(root, date.Year, date.Month, date.Day+".jsonl")
}

// Writer appends records to a logbook. It is safe for concurrent use.
type Writer struct {
	root string
	mu   sync.Mutex
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the logbook directory.
func (w *Writer) Root() string { return w.root }

// Path returns where a record dated date would be written.
func (w *Writer) Path(date models.Date) string {
	return Path(w.root, date)
}

// Append writes rec as one JSON line to its day file and returns the path.
// after, if non-nil, runs while the writer is still locked so that work on
// the file (a git commit) sees exactly the line just written.
func (w *Writer) Append(ctx context.Context, rec *models.Record, date models.Date, after func(path string) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	line = append(line, '\n')

	path := w.Path(date)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return "", fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	if after != nil {
		if err := after(path); err != nil {
			return path, err
		}
	}
	return path, nil
}

// ReadFile returns the records in a JSONL file. Blank lines are ignored and
// malformed lines are skipped with a warning.
func ReadFile(path string, log *slog.Logger) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var records []models.Record
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec models.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Warn("skipping malformed line", "file", path, "line", lineNo, "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return records, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// ReadDay returns the records logged for date. A day with no file has no
// records.
func ReadDay(root string, date models.Date, log *slog.Logger) ([]models.Record, error) {
	records, err := ReadFile(Path(root, date), log)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

// Walk calls fn for every day file under root in lexical order, which is
// also date order. rel is the path relative to root.
func Walk(root string, fn func(path, rel string) error) error {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".jsonl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(files)
	for _, path := range files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := fn(path, filepath.ToSlash(rel)); err != nil {
			return err
		}
	}
	return nil
}

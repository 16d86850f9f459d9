package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/workoutlog/internal/models"
)

// maxLine bounds a single JSONL line.
const maxLine = 1 << 20

// Stream reads JSONL records from r and writes one formatted line per valid
// record to w. Blank and malformed lines are skipped so the output can be
// piped. It returns the number of records written.
func Stream(r io.Reader, w io.Writer, log *slog.Logger) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	written := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec models.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				log.Debug("skipping invalid json line", "line", lineNo)
			} else {
				log.Warn("skipping unreadable record", "line", lineNo, "error", err)
			}
			continue
		}

		if _, err := fmt.Fprintln(w, Record(&rec)); err != nil {
			return written, fmt.Errorf("writing formatted record: %w", err)
		}
		written++
	}
	if err := sc.Err(); err != nil {
		return written, fmt.Errorf("reading records: %w", err)
	}
	return written, nil
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/workoutlog/internal/models"
)

// entryNamespace seeds deterministic entry ids so re-syncing a file never
// duplicates rows.
var entryNamespace = uuid.MustParse("6f1d2c4e-8a57-4d0b-9a3e-2b7c5e9f1a40")

// Rows per INSERT, kept under the Postgres bind parameter limit.
const (
	insertChunk = 500
	setChunk    = 5000
)

// EntryRow is a record flattened for the entries table.
type EntryRow struct {
	ID         uuid.UUID
	Day        string
	LoggedAt   *time.Time
	Type       string
	Name       string
	Unit       string
	RPE        *int
	Notes      string
	Source     string
	Raw        string
	File       string
	RecordJSON []byte
	Sets       []SetRow
}

// SetRow is one row of entry_sets.
type SetRow struct {
	Number int
	Weight *float64
	Reps   int
	Failed bool
}

// EntryID derives the stable id of a record from its timestamp and raw text.
func EntryID(rec *models.Record) uuid.UUID {
	return uuid.NewSHA1(entryNamespace, []byte(rec.Timestamp.String()+"|"+rec.Raw))
}

// NewEntryRow flattens rec. file is the logbook-relative path it came from,
// empty when mirrored straight from a write.
func NewEntryRow(rec *models.Record, file string) (EntryRow, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return EntryRow{}, fmt.Errorf("encoding record: %w", err)
	}

	row := EntryRow{
		ID:         EntryID(rec),
		Day:        rec.Timestamp.Date.String(),
		Type:       string(rec.Type()),
		Name:       rec.Name(),
		Notes:      rec.Notes,
		Source:     rec.Source,
		Raw:        rec.Raw,
		File:       file,
		RecordJSON: raw,
	}
	// Literal dates such as 2026-02-31 have no instant; day still orders them.
	if t, err := rec.Timestamp.Time(); err == nil {
		row.LoggedAt = &t
	}
	if rec.RPE != 0 {
		rpe := rec.RPE
		row.RPE = &rpe
	}
	if l, ok := rec.Detail.(*models.Lift); ok {
		row.Unit = l.Unit()
		for i, s := range l.Sets {
			row.Sets = append(row.Sets, SetRow{Number: i + 1, Weight: s.Weight, Reps: s.Reps, Failed: s.Failed})
		}
	}
	return row, nil
}

// InsertEntries inserts entries and their sets in one transaction. Rows
// already present are left untouched. Returns the number of new entries.
func (db *DB) InsertEntries(ctx context.Context, rows []EntryRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted int64
	for start := 0; start < len(rows); start += insertChunk {
		end := min(start+insertChunk, len(rows))
		query, args := entryInsert(rows[start:end])
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting entries: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	sets := flattenSets(rows)
	for start := 0; start < len(sets); start += setChunk {
		end := min(start+setChunk, len(sets))
		query, args := setInsert(sets[start:end])
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("inserting entry sets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing entries: %w", err)
	}
	return inserted, nil
}

func entryInsert(rows []EntryRow) (string, []any) {
	const cols = 12
	query := `INSERT INTO entries (id, day, logged_at, type, name, unit, rpe, notes, source, raw, file, record_json) VALUES `
	args := make([]any, 0, len(rows)*cols)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		valueStrings = append(valueStrings, placeholders(i*cols, cols))
		args = append(args, r.ID, r.Day, r.LoggedAt, r.Type, r.Name, r.Unit, r.RPE,
			r.Notes, r.Source, r.Raw, r.File, r.RecordJSON)
	}
	return query + strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING", args
}

type entrySet struct {
	entryID uuid.UUID
	SetRow
}

func flattenSets(rows []EntryRow) []entrySet {
	var out []entrySet
	for _, r := range rows {
		for _, s := range r.Sets {
			out = append(out, entrySet{entryID: r.ID, SetRow: s})
		}
	}
	return out
}

func setInsert(sets []entrySet) (string, []any) {
	const cols = 5
	query := `INSERT INTO entry_sets (entry_id, set_number, weight, reps, failed) VALUES `
	args := make([]any, 0, len(sets)*cols)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		valueStrings = append(valueStrings, placeholders(i*cols, cols))
		args = append(args, s.entryID, s.Number, s.Weight, s.Reps, s.Failed)
	}
	return query + strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING", args
}

// placeholders returns "($base+1,...,$base+n)".
func placeholders(base, n int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "$%d", base+i)
	}
	b.WriteByte(')')
	return b.String()
}

// QueryEntries returns the records logged on days in [start, end), oldest
// first.
func (db *DB) QueryEntries(ctx context.Context, start, end time.Time) ([]models.Record, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT record_json FROM entries
		 WHERE day >= $1 AND day < $2
		 ORDER BY day ASC, logged_at ASC NULLS LAST, id ASC`,
		start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Record, error) {
		var raw []byte
		if err := row.Scan(&raw); err != nil {
			return models.Record{}, err
		}
		var rec models.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return models.Record{}, fmt.Errorf("decoding stored record: %w", err)
		}
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning entries: %w", err)
	}
	return records, nil
}

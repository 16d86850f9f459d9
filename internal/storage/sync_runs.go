package storage

import (
	"context"
	"fmt"
	"time"
)

// Sync run statuses.
const (
	SyncRunning = "running"
	SyncSuccess = "success"
	SyncError   = "error"
)

// SyncRun is the outcome of one logbook-to-database sync.
type SyncRun struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Status          string    `json:"status"`
	FilesTotal      int       `json:"files_total"`
	FilesSynced     int       `json:"files_synced"`
	EntriesSent     int       `json:"entries_sent"`
	EntriesInserted int64     `json:"entries_inserted"`
	DurationMs      *int      `json:"duration_ms"`
	ErrorMessage    *string   `json:"error_message"`
}

// InsertSyncRun creates a sync run entry and returns its id.
func (db *DB) InsertSyncRun(ctx context.Context, run SyncRun) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO sync_runs (status, files_total, files_synced, entries_sent, entries_inserted, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING id`,
		run.Status, run.FilesTotal, run.FilesSynced, run.EntriesSent, run.EntriesInserted,
		run.DurationMs, run.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting sync run: %w", err)
	}
	return id, nil
}

// UpdateSyncRun records the final state of a run started with InsertSyncRun.
func (db *DB) UpdateSyncRun(ctx context.Context, id int64, run SyncRun) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE sync_runs SET
		 status = $2, files_total = $3, files_synced = $4, entries_sent = $5,
		 entries_inserted = $6, duration_ms = $7, error_message = $8
		 WHERE id = $1`,
		id, run.Status, run.FilesTotal, run.FilesSynced, run.EntriesSent,
		run.EntriesInserted, run.DurationMs, run.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating sync run %d: %w", id, err)
	}
	return nil
}

// QuerySyncRuns returns the most recent sync runs.
func (db *DB) QuerySyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, status, files_total, files_synced, entries_sent,
		 entries_inserted, duration_ms, error_message
		 FROM sync_runs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var result []SyncRun
	for rows.Next() {
		var r SyncRun
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Status, &r.FilesTotal, &r.FilesSynced,
			&r.EntriesSent, &r.EntriesInserted, &r.DurationMs, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

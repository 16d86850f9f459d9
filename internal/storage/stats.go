package storage

import (
	"context"
	"fmt"
)

// LogStats holds aggregate statistics about mirrored entries.
type LogStats struct {
	TotalEntries int64          `json:"total_entries"`
	TotalSets    int64          `json:"total_sets"`
	EarliestDay  *string        `json:"earliest_day"`
	LatestDay    *string        `json:"latest_day"`
	ByExercise   []ExerciseStat `json:"by_exercise"`
}

// ExerciseStat summarizes one exercise or cardio modality.
type ExerciseStat struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Entries   int64    `json:"entries"`
	Sets      int64    `json:"sets"`
	TopWeight *float64 `json:"top_weight,omitempty"`
	LastDay   string   `json:"last_day"`
}

// GetLogStats returns totals and a per-exercise breakdown.
func (db *DB) GetLogStats(ctx context.Context) (*LogStats, error) {
	stats := &LogStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(day), MAX(day) FROM entries`,
	).Scan(&stats.TotalEntries, &stats.EarliestDay, &stats.LatestDay)
	if err != nil {
		return nil, fmt.Errorf("counting entries: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM entry_sets`).Scan(&stats.TotalSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT e.name, e.type, COUNT(DISTINCT e.id), COUNT(s.entry_id),
		        MAX(s.weight) FILTER (WHERE NOT s.failed), MAX(e.day)
		 FROM entries e
		 LEFT JOIN entry_sets s ON s.entry_id = e.id
		 WHERE e.type <> 'note'
		 GROUP BY e.name, e.type
		 ORDER BY COUNT(DISTINCT e.id) DESC, e.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.Type, &s.Entries, &s.Sets, &s.TopWeight, &s.LastDay); err != nil {
			return nil, fmt.Errorf("scanning exercise stat: %w", err)
		}
		stats.ByExercise = append(stats.ByExercise, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(day, raw string) *models.Record {
	d, _ := models.ParseDate(day)
	return &models.Record{
		Timestamp: models.Timestamp{Date: d, Clock: "10:30:00", Offset: "-08:00"},
		Source:    "cli",
		Raw:       raw,
		RPE:       8,
		Detail: &models.Lift{
			Category: exercises.Strength,
			Exercise: "squat",
			Sets:     []models.Set{models.WeightedSet(315, 5), models.FailedSet(nil)},
		},
	}
}

func TestNewEntryRow(t *testing.T) {
	rec := record("2026-02-16", "/log squat 315x5")
	row, err := NewEntryRow(rec, "2026/02/16.jsonl")
	require.NoError(t, err)

	assert.Equal(t, "2026-02-16", row.Day)
	assert.Equal(t, "strength", row.Type)
	assert.Equal(t, "squat", row.Name)
	assert.Equal(t, "lb", row.Unit)
	require.NotNil(t, row.RPE)
	assert.Equal(t, 8, *row.RPE)
	require.NotNil(t, row.LoggedAt)
	assert.Equal(t, 18, row.LoggedAt.UTC().Hour())
	assert.Equal(t, "2026/02/16.jsonl", row.File)

	require.Len(t, row.Sets, 2)
	assert.Equal(t, 1, row.Sets[0].Number)
	assert.Equal(t, 2, row.Sets[1].Number)
	assert.True(t, row.Sets[1].Failed)

	var back models.Record
	require.NoError(t, json.Unmarshal(row.RecordJSON, &back))
	assert.Equal(t, *rec, back)
}

// TestNewEntryRowImpossibleDate checks that literal dates with no calendar
// instant still produce a row.
func TestNewEntryRowImpossibleDate(t *testing.T) {
	row, err := NewEntryRow(record("2026-02-31", "x"), "")
	require.NoError(t, err)
	assert.Nil(t, row.LoggedAt)
	assert.Equal(t, "2026-02-31", row.Day)
}

func TestEntryIDStable(t *testing.T) {
	a := EntryID(record("2026-02-16", "/log squat 315x5"))
	b := EntryID(record("2026-02-16", "/log squat 315x5"))
	c := EntryID(record("2026-02-16", "/log squat 315x6"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestInsertStatements(t *testing.T) {
	r1, err := NewEntryRow(record("2026-02-16", "a"), "")
	require.NoError(t, err)
	r2, err := NewEntryRow(record("2026-02-17", "b"), "")
	require.NoError(t, err)

	query, args := entryInsert([]EntryRow{r1, r2})
	assert.Len(t, args, 24)
	assert.Contains(t, query, "($13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)")
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT DO NOTHING"))

	sets := flattenSets([]EntryRow{r1, r2})
	require.Len(t, sets, 4)
	query, args = setInsert(sets)
	assert.Len(t, args, 20)
	assert.Contains(t, query, "($16,$17,$18,$19,$20)")
	assert.Equal(t, r2.ID, sets[2].entryID)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "($1,$2,$3)", placeholders(0, 3))
	assert.Equal(t, "($6,$7)", placeholders(5, 2))
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts() Timestamp {
	return Timestamp{Date: Date{Year: "2026", Month: "02", Day: "16"}, Clock: "10:30:00", Offset: "-08:00"}
}

func ptr(f float64) *float64 { return &f }

// TestMarshalStrength checks the flat JSONL shape of a weighted lift.
func TestMarshalStrength(t *testing.T) {
	rec := Record{
		Timestamp: ts(),
		Source:    "cli",
		Raw:       "/log squat 315x2x3 rpe8",
		RPE:       8,
		Detail: &Lift{
			Category: exercises.Strength,
			Exercise: "squat",
			Sets:     []Set{WeightedSet(315, 3), WeightedSet(315, 3)},
		},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ts": "2026-02-16T10:30:00-08:00",
		"type": "strength",
		"exercise": "squat",
		"unit": "lb",
		"sets": [{"weight": 315, "reps": 3, "failed": false}, {"weight": 315, "reps": 3, "failed": false}],
		"rpe": 8,
		"source": "cli",
		"raw": "/log squat 315x2x3 rpe8"
	}`, string(data))
}

// TestMarshalBodyweightOmitsUnit verifies unit only appears when a set has weight.
func TestMarshalBodyweightOmitsUnit(t *testing.T) {
	rec := Record{
		Timestamp: ts(),
		Raw:       "/log pull-up",
		Detail:    &Lift{Category: exercises.Bodyweight, Exercise: "pull_up"},
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.NotContains(t, m, "unit")
	assert.Equal(t, []any{}, m["sets"], "empty sets are kept as []")
	assert.NotContains(t, m, "notes")
}

func TestMarshalNoteAlwaysHasNotes(t *testing.T) {
	rec := Record{Timestamp: ts(), Raw: "/note ", Detail: &Note{}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notes":""`)
	assert.NotContains(t, string(data), `"sets"`)
}

// TestRoundTripVariants checks that unmarshal rebuilds the same variant.
func TestRoundTripVariants(t *testing.T) {
	records := []Record{
		{
			Timestamp: ts(), Source: "cli", Raw: "/log squat 405 2,x", Notes: "grind",
			Detail: &Lift{Category: exercises.Strength, Exercise: "squat", Sets: []Set{
				WeightedSet(405, 2), FailedSet(ptr(405)),
			}},
		},
		{
			Timestamp: ts(), Source: "telegram", Raw: "/log treadmill 10min 3.2mph",
			Detail: &Cardio{Modality: "treadmill", DurationMin: ptr(10), SpeedMPH: ptr(3.2)},
		},
		{
			Timestamp: ts(), Source: "cli", Raw: "/note tired", Notes: "tired",
			Detail: &Note{},
		},
	}

	for _, rec := range records {
		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var got Record
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, rec, got)
		assert.NoError(t, got.Validate())
	}
}

func TestUnmarshalRejectsUnknownType(t *testing.T) {
	var rec Record
	err := json.Unmarshal([]byte(`{"ts":"2026-02-16T10:30:00-08:00","type":"yoga","source":"x","raw":"y"}`), &rec)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"ts":"2026-02-16T10:30:00-08:00","type":"strength","source":"x","raw":"y"}`), &rec)
	assert.Error(t, err, "strength without exercise")

	err = json.Unmarshal([]byte(`{"ts":"yesterday","type":"note","source":"x","raw":"y"}`), &rec)
	assert.Error(t, err, "bad timestamp")
}

func TestValidate(t *testing.T) {
	bad := []Record{
		{Timestamp: ts(), Detail: &Lift{Category: exercises.Machine, Exercise: "squat"}},
		{Timestamp: ts(), Detail: &Lift{Category: exercises.Strength, Exercise: "curl"}},
		{Timestamp: ts(), Detail: &Lift{Category: exercises.Strength, Exercise: "squat", Sets: []Set{{Reps: 3, Failed: true}}}},
		{Timestamp: ts(), Detail: &Cardio{Modality: "squat"}},
		{Timestamp: ts(), RPE: 11, Detail: &Note{}},
		{Timestamp: ts()},
	}
	for i, rec := range bad {
		assert.Error(t, rec.Validate(), "case %d", i)
	}
}

func TestLiftUnit(t *testing.T) {
	l := &Lift{Sets: []Set{RepSet(10), RepSet(8)}}
	assert.Equal(t, "", l.Unit())
	l.Sets = append(l.Sets, WeightedSet(25, 5))
	assert.Equal(t, WeightUnit, l.Unit())
}

func TestTimestamp(t *testing.T) {
	pdt := time.FixedZone("PDT", -7*60*60)
	clock := time.Date(2026, 7, 4, 6, 5, 9, 0, pdt)
	got := NewTimestamp(Date{Year: "2026", Month: "01", Day: "30"}, clock)
	assert.Equal(t, "2026-01-30T06:05:09-07:00", got.String())

	parsed, err := ParseTimestamp(got.String())
	require.NoError(t, err)
	assert.Equal(t, got, parsed)

	tm, err := parsed.Time()
	require.NoError(t, err)
	assert.Equal(t, 30, tm.Day())

	impossible := Timestamp{Date: Date{Year: "2026", Month: "02", Day: "31"}, Clock: "10:00:00", Offset: "-08:00"}
	_, err = impossible.Time()
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2026-01-30")
	require.True(t, ok)
	assert.Equal(t, Date{Year: "2026", Month: "01", Day: "30"}, d)
	assert.Equal(t, "2026-01-30", d.String())

	for _, bad := range []string{"2026-1-30", "20260130", "yesterday", " 2026-01-30"} {
		_, ok := ParseDate(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, Date{Year: "2026", Month: "03", Day: "07"}, DateOf(time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)))
}

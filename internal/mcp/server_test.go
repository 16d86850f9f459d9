package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/logbook"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/mark3labs/mcp-go/mcp"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newHandlers(t *testing.T) (*handlers, string) {
	t.Helper()
	root := t.TempDir()
	rec := recorder.New(logbook.NewWriter(root), nil, nil, quiet())
	return &handlers{b: NewLocal(rec), log: quiet()}, root
}

type toolFunc func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, fn toolFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("tool returned protocol error: %v", err)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestNewRegistersTools verifies the server builds with every tool.
func TestNewRegistersTools(t *testing.T) {
	h, _ := newHandlers(t)
	if s := New(h.b, "test", quiet()); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestParseWorkoutReturnsRecord verifies parse_workout returns the record
// without touching the logbook.
func TestParseWorkoutReturnsRecord(t *testing.T) {
	h, root := newHandlers(t)
	res := call(t, h.parseWorkout, map[string]any{"message": "squat 315x5x3 rpe8 felt strong"})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", text(t, res))
	}

	var got struct {
		Summary string          `json:"summary"`
		Record  json.RawMessage `json:"record"`
		DryRun  bool            `json:"dry_run"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(got.Summary, "Squat: 315x5x3 @ RPE 8") {
		t.Errorf("summary = %q", got.Summary)
	}
	if !strings.Contains(string(got.Record), `"source":"mcp"`) {
		t.Errorf("record = %s, want source mcp", got.Record)
	}
	if !got.DryRun {
		t.Error("parse result should be marked dry_run")
	}

	called := false
	_ = logbook.Walk(root, func(string, string) error { called = true; return nil })
	if called {
		t.Error("parse_workout wrote to the logbook")
	}
}

// TestParseWorkoutError verifies parse failures carry their kind.
func TestParseWorkoutError(t *testing.T) {
	h, _ := newHandlers(t)
	res := call(t, h.parseWorkout, map[string]any{"message": "foobar 100x5"})
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if msg := text(t, res); !strings.HasPrefix(msg, "UnknownExercise: ") {
		t.Errorf("error = %q, want UnknownExercise prefix", msg)
	}

	res = call(t, h.parseWorkout, map[string]any{})
	if !res.IsError {
		t.Error("expected error for missing message")
	}
}

// TestLogWorkoutThenGetDayLog verifies a logged entry is readable by date.
func TestLogWorkoutThenGetDayLog(t *testing.T) {
	h, _ := newHandlers(t)

	for _, msg := range []string{"2026-02-16: bench 225x3x5", "/note 2026-02-16: deload week"} {
		res := call(t, h.logWorkout, map[string]any{"message": msg, "source": "claude"})
		if res.IsError {
			t.Fatalf("log_workout(%q): %s", msg, text(t, res))
		}
	}

	res := call(t, h.getDayLog, map[string]any{"date": "2026-02-16"})
	if res.IsError {
		t.Fatalf("get_day_log: %s", text(t, res))
	}
	var day struct {
		Date    string   `json:"date"`
		Lines   []string `json:"lines"`
		Records []any    `json:"records"`
	}
	if err := json.Unmarshal([]byte(text(t, res)), &day); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if day.Date != "2026-02-16" {
		t.Errorf("date = %q", day.Date)
	}
	want := []string{
		"[2026-02-16] Bench Press: 225x3x5",
		`[2026-02-16] Note: "deload week"`,
	}
	if len(day.Lines) != len(want) {
		t.Fatalf("lines = %q, want %q", day.Lines, want)
	}
	for i := range want {
		if day.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, day.Lines[i], want[i])
		}
	}
}

// TestLogWorkoutDryRun verifies dry_run leaves the day empty.
func TestLogWorkoutDryRun(t *testing.T) {
	h, _ := newHandlers(t)
	res := call(t, h.logWorkout, map[string]any{"message": "2026-02-16: squat 315x5", "dry_run": true})
	if res.IsError {
		t.Fatalf("log_workout: %s", text(t, res))
	}
	res = call(t, h.getDayLog, map[string]any{"date": "2026-02-16"})
	if strings.Contains(text(t, res), "Squat") {
		t.Error("dry run was recorded")
	}
}

// TestGetDayLogInvalidDate verifies a bad date is reported as a tool error.
func TestGetDayLogInvalidDate(t *testing.T) {
	h, _ := newHandlers(t)
	res := call(t, h.getDayLog, map[string]any{"date": "last tuesday"})
	if !res.IsError {
		t.Fatal("expected tool error")
	}
}

// TestListExercisesFilter verifies the category filter.
func TestListExercisesFilter(t *testing.T) {
	h, _ := newHandlers(t)
	res := call(t, h.listExercises, map[string]any{"category": "cardio"})
	var entries []exercises.Entry
	if err := json.Unmarshal([]byte(text(t, res)), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d cardio entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Category != exercises.Cardio {
			t.Errorf("%s has category %s", e.ID, e.Category)
		}
	}

	res = call(t, h.listExercises, nil)
	if err := json.Unmarshal([]byte(text(t, res)), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != len(exercises.Catalog()) {
		t.Errorf("unfiltered list has %d entries, want %d", len(entries), len(exercises.Catalog()))
	}
}

// TestExerciseCatalogResource verifies the catalog resource content.
func TestExerciseCatalogResource(t *testing.T) {
	h, _ := newHandlers(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = "workoutlog://exercises"

	contents, err := h.exerciseCatalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	trc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	if trc.URI != "workoutlog://exercises" || trc.MIMEType != "application/json" {
		t.Errorf("uri=%q mime=%q", trc.URI, trc.MIMEType)
	}
	if !strings.Contains(trc.Text, `"id":"bench_press"`) {
		t.Error("catalog is missing bench_press")
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/recorder"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and headers.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want secret", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

var refTime = time.Date(2026, 2, 16, 10, 30, 0, 0, parser.Zone)

func sampleResult(t *testing.T, msg string) *recorder.Result {
	t.Helper()
	rec, date, err := parser.Parse(msg, refTime, "mcp")
	if err != nil {
		t.Fatal(err)
	}
	return &recorder.Result{Record: rec, Date: date.String(), Path: "/db/2026/02/16.jsonl"}
}

// TestLogSendsBody verifies the request body and result decoding.
func TestLogSendsBody(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			var body logRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Message != "/log squat 315x5x3" || body.Source != "mcp" || !body.DryRun {
				t.Errorf("body = %+v", body)
			}
			writeTestJSON(t, w, http.StatusOK, sampleResult(t, body.Message))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL+"/", "secret")
	res, err := client.Log(context.Background(), "/log squat 315x5x3", "mcp", true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record.Name() != "squat" {
		t.Errorf("name = %q, want squat", res.Record.Name())
	}
	if res.Date != "2026-02-16" {
		t.Errorf("date = %q", res.Date)
	}
}

// TestParseErrorKeepsKind verifies a 422 response becomes a *parser.Error.
func TestParseErrorKeepsKind(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/parse": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusUnprocessableEntity, errorResponse{
				Error: `Unknown exercise: "foobar". Could not normalize.`,
				Kind:  string(parser.UnknownExercise),
			})
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "secret").Parse(context.Background(), "/log foobar", "mcp")
	if !parser.IsKind(err, parser.UnknownExercise) {
		t.Fatalf("err = %v, want UnknownExercise", err)
	}
}

// TestServerErrorIsPlain verifies non-parse failures are not mistaken for input errors.
func TestServerErrorIsPlain(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/log": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusInternalServerError, errorResponse{Error: "disk full"})
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "secret").Log(context.Background(), "/log squat", "", false)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := parser.KindOf(err); ok {
		t.Errorf("server failure reported as input error: %v", err)
	}
}

// TestDay verifies the day path and record decoding.
func TestDay(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/days/2026-02-16": func(w http.ResponseWriter, r *http.Request) {
			res := sampleResult(t, "/log treadmill 10min 3.2mph")
			writeTestJSON(t, w, http.StatusOK, recorder.DayLog{Date: "2026-02-16", Records: []models.Record{*res.Record}})
		},
	})
	defer ts.Close()

	day, err := NewHTTPClient(ts.URL, "secret").Day(context.Background(), models.Date{Year: "2026", Month: "02", Day: "16"})
	if err != nil {
		t.Fatal(err)
	}
	if len(day.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(day.Records))
	}
	if day.Records[0].Type() != models.TypeCardio {
		t.Errorf("type = %s, want cardio", day.Records[0].Type())
	}
}

// TestExercises verifies catalog decoding.
func TestExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, exercises.Catalog())
		},
	})
	defer ts.Close()

	entries, err := NewHTTPClient(ts.URL, "secret").Exercises(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(exercises.Catalog()) {
		t.Errorf("got %d entries, want %d", len(entries), len(exercises.Catalog()))
	}
}

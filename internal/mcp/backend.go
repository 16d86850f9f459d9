package mcp

import (
	"context"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/recorder"
)

// Backend is what the MCP tools operate on. Local serves a logbook in this
// process; HTTPClient forwards to a running workoutlog-server (accessed over
// Tailscale).
type Backend interface {
	Log(ctx context.Context, message, source string, dryRun bool) (*recorder.Result, error)
	Parse(ctx context.Context, message, source string) (*recorder.Result, error)
	Day(ctx context.Context, date models.Date) (*recorder.DayLog, error)
	Exercises(ctx context.Context) ([]exercises.Entry, error)
}

// Local is a Backend over an in-process Recorder.
type Local struct {
	rec *recorder.Recorder
}

// Compile-time checks.
var (
	_ Backend = (*Local)(nil)
	_ Backend = (*HTTPClient)(nil)
)

// NewLocal wraps rec.
func NewLocal(rec *recorder.Recorder) *Local {
	return &Local{rec: rec}
}

func (l *Local) Log(ctx context.Context, message, source string, dryRun bool) (*recorder.Result, error) {
	return l.rec.Record(ctx, recorder.Request{Message: message, Source: source, DryRun: dryRun, Reference: time.Now()})
}

func (l *Local) Parse(_ context.Context, message, source string) (*recorder.Result, error) {
	return l.rec.Preview(recorder.Request{Message: message, Source: source, Reference: time.Now()})
}

func (l *Local) Day(_ context.Context, date models.Date) (*recorder.DayLog, error) {
	return l.rec.Day(date)
}

func (l *Local) Exercises(context.Context) ([]exercises.Entry, error) {
	return exercises.Catalog(), nil
}

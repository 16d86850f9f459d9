package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/format"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Record a workout entry or note. Accepts shorthand like \"squat 315x5x3 rpe8 felt strong\", \"pull-up 20,20,25\", \"squat 405 2,1,x\" or \"treadmill 10min 3.2mph incline15\". Prefix with \"yesterday:\" or \"YYYY-MM-DD:\" to log for another day. Text starting with \"/note \" is stored as a note."),
	mcp.WithString("message", mcp.Required(), mcp.Description("Entry text, with or without the /log prefix")),
	mcp.WithString("source", mcp.Description("Source label stored with the entry. Defaults to 'mcp'.")),
	mcp.WithBoolean("dry_run", mcp.Description("Parse and report without writing. Defaults to false.")),
)

var toolParseWorkout = mcp.NewTool("parse_workout",
	mcp.WithDescription("Parse an entry without recording it. Returns the structured record that log_workout would write."),
	mcp.WithString("message", mcp.Required(), mcp.Description("Entry text, with or without the /log prefix")),
	mcp.WithString("source", mcp.Description("Source label. Defaults to 'mcp'.")),
)

var toolGetDayLog = mcp.NewTool("get_day_log",
	mcp.WithDescription("Everything logged on one day, as formatted lines and structured records."),
	mcp.WithString("date", mcp.Description("'today', 'yesterday' or YYYY-MM-DD (Pacific time). Defaults to today.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List recognized exercises with their category and accepted aliases."),
	mcp.WithString("category", mcp.Description("Only list this category."), mcp.Enum("strength", "bodyweight", "machine", "cardio")),
)

// entryResult is a recorder result with a human-readable summary line.
type entryResult struct {
	Summary string `json:"summary"`
	*recorder.Result
}

// dayResult is a day log with one formatted line per record.
type dayResult struct {
	Lines []string `json:"lines"`
	*recorder.DayLog
}

// --- Tool handlers ---

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}
	message, _ := parser.Command(text, false)

	res, err := h.b.Log(ctx, message, req.GetString("source", DefaultSource), req.GetBool("dry_run", false))
	if err != nil {
		return h.failure("log_workout", err), nil
	}
	return entryToolResult(res)
}

func (h *handlers) parseWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message parameter is required"), nil
	}
	message, _ := parser.Command(text, false)

	res, err := h.b.Parse(ctx, message, req.GetString("source", DefaultSource))
	if err != nil {
		return h.failure("parse_workout", err), nil
	}
	return entryToolResult(res)
}

func (h *handlers) getDayLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := parser.ResolveDate(req.GetString("date", ""), time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	day, err := h.b.Day(ctx, date)
	if err != nil {
		return h.failure("get_day_log", err), nil
	}

	lines := make([]string, 0, len(day.Records))
	for i := range day.Records {
		lines = append(lines, format.Record(&day.Records[i]))
	}

	result, err := mcp.NewToolResultJSON(dayResult{Lines: lines, DayLog: day})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.b.Exercises(ctx)
	if err != nil {
		return h.failure("list_exercises", err), nil
	}

	if cat := req.GetString("category", ""); cat != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Category == exercises.Category(cat) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func entryToolResult(res *recorder.Result) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(entryResult{Summary: format.Record(res.Record), Result: res})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// failure turns err into a tool error. Input mistakes carry their kind so
// the assistant can correct the entry; anything else is logged.
func (h *handlers) failure(tool string, err error) *mcp.CallToolResult {
	if kind, ok := parser.KindOf(err); ok {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", kind, err.Error()))
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError(tool + " failed: " + err.Error())
}

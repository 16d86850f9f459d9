// Package mcp exposes the workout log as Model Context Protocol tools so an
// assistant can record and read entries.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultSource labels entries recorded through MCP.
const DefaultSource = "mcp"

// New creates an MCP server with all tools and resources registered.
func New(b Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("workoutlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout log. Record lifts, cardio and notes from shorthand such as \"squat 315x5x3 rpe8\" or \"treadmill 10min 3.2mph\", and read back what was logged on a day."),
	)

	h := &handlers{b: b, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolParseWorkout, Handler: h.parseWorkout},
		server.ServerTool{Tool: toolGetDayLog, Handler: h.getDayLog},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	s.AddResources(
		server.ServerResource{Resource: resExercises, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	b   Backend
	log *slog.Logger
}

var resExercises = mcp.NewResource(
	"workoutlog://exercises",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every recognized exercise with its category and accepted aliases"),
	mcp.WithMIMEType("application/json"),
)

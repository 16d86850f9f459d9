package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/claude/workoutlog/internal/sentry"
	"github.com/claude/workoutlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Store is the optional Postgres mirror behind the query endpoints.
type Store interface {
	Ping(ctx context.Context) error
	QueryEntries(ctx context.Context, start, end time.Time) ([]models.Record, error)
	GetLogStats(ctx context.Context) (*storage.LogStats, error)
	QuerySyncRuns(ctx context.Context, limit int) ([]storage.SyncRun, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	rec    *recorder.Recorder
	store  Store
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. store may be nil,
// in which case the mirror endpoints answer 501.
func New(rec *recorder.Recorder, store Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		rec:    rec,
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(sentry.Middleware(s.log))

	s.router.Get("/health", s.handleHealth)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/log", s.handleLog)
		r.Post("/api/v1/parse", s.handleParse)
	})

	// Read endpoints (no auth, access is limited by the tailnet)
	s.router.Get("/api/v1/days/{date}", s.handleDay)
	s.router.Get("/api/v1/exercises", s.handleExercises)
	s.router.Get("/api/v1/entries", s.handleEntries)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/sync-runs", s.handleSyncRuns)
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp behind the API key.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

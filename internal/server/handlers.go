package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/recorder"
	"github.com/claude/workoutlog/internal/sentry"
	"github.com/go-chi/chi/v5"
)

// logBody is the request body of /api/v1/log and /api/v1/parse. Message
// must carry its /log or /note prefix, as sent by the chat bot.
type logBody struct {
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
	Date    string `json:"date,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) decodeLog(w http.ResponseWriter, r *http.Request) (recorder.Request, bool) {
	var body logBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON: " + err.Error()})
		return recorder.Request{}, false
	}
	if body.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "message is required"})
		return recorder.Request{}, false
	}

	req := recorder.Request{Message: body.Message, Source: body.Source, DryRun: body.DryRun}
	if body.Date != "" {
		ref, err := parser.ReferenceOn(body.Date, time.Now())
		if err != nil {
			s.writeError(w, err)
			return recorder.Request{}, false
		}
		req.Reference = ref
	}
	return req, true
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLog(w, r)
	if !ok {
		return
	}

	result, err := s.rec.Record(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	for _, warning := range result.Warnings {
		sentry.CaptureWarning(warning, map[string]any{"path": result.Path, "source": req.Source}, s.log)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeLog(w, r)
	if !ok {
		return
	}

	result, err := s.rec.Preview(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := parser.ResolveDate(chi.URLParam(r, "date"), time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: string(parser.InvalidDate)})
		return
	}

	day, err := s.rec.Day(date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	entries := exercises.Catalog()
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Category == exercises.Category(cat) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	records, err := s.store.QueryEntries(r.Context(), start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	stats, err := s.store.GetLogStats(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSyncRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.store.QuerySyncRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}
	code := http.StatusOK
	if s.store != nil {
		status["database"] = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			s.log.Warn("database ping failed", "error", err)
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, status)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{Error: "database not configured"})
		return false
	}
	return true
}

// writeError answers 422 with the error kind for bad input and 500 for
// everything else.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var pe *parser.Error
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: pe.Msg, Kind: string(pe.Kind)})
		return
	}
	s.log.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads start/end query parameters as RFC 3339 instants or
// Pacific calendar days. It defaults to the last 7 days including today; a
// date-only end includes that whole day.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	now := time.Now().In(parser.Zone)
	end = time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, parser.Zone)
	if endStr != "" {
		var dateOnly bool
		end, dateOnly, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1)
		}
	}

	if startStr == "" {
		return end.AddDate(0, 0, -7), end, nil
	}
	start, _, err = parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(parser.Zone), false, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, parser.Zone)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/workoutlog/internal/exercises"
	"github.com/claude/workoutlog/internal/models"
	"github.com/claude/workoutlog/internal/parser"
	"github.com/claude/workoutlog/internal/recorder"
)

// HTTPClient implements Backend by calling the workoutlog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// logbook lives on the server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// logRequest mirrors the body accepted by POST /api/v1/log and /api/v1/parse.
type logRequest struct {
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
}

// errorResponse is the JSON error body written by the server.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(data, &e) == nil && e.Kind != "" {
			// Parse failures keep their kind so callers can tell bad input
			// from a broken server.
			return &parser.Error{Kind: parser.Kind(e.Kind), Msg: e.Error}
		}
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Log(ctx context.Context, message, source string, dryRun bool) (*recorder.Result, error) {
	var res recorder.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/log", logRequest{Message: message, Source: source, DryRun: dryRun}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Parse(ctx context.Context, message, source string) (*recorder.Result, error) {
	var res recorder.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/parse", logRequest{Message: message, Source: source}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Day(ctx context.Context, date models.Date) (*recorder.DayLog, error) {
	var day recorder.DayLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/days/"+date.String(), nil, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]exercises.Entry, error) {
	var entries []exercises.Entry
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

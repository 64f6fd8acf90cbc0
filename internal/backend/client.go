package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client is the generation-backend surface the pipeline depends on.
// The backend's internals are opaque; only its HTTP API is consumed.
type Client interface {
	// Heartbeat probes whether the serving process answers at all.
	Heartbeat(ctx context.Context) error
	// ListModels returns the names of installed models.
	ListModels(ctx context.Context) ([]string, error)
	// CreateModel builds a model from a model-definition file's contents.
	CreateModel(ctx context.Context, name, modelfile string) error
	// Generate runs one synchronous generation and returns the raw response
	// text. No deadline is imposed here beyond ctx; a hung backend call is
	// not independently time-boxed.
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// HTTPClient talks to an Ollama-compatible HTTP API.
type HTTPClient struct {
	BaseURL string
	Logger  *slog.Logger

	// probe requests (heartbeat, tags) get a short timeout; generate does not.
	probe *http.Client
	long  *http.Client
}

func NewHTTPClient(baseURL string, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		BaseURL: baseURL,
		Logger:  logger,
		probe:   &http.Client{Timeout: 10 * time.Second},
		long:    &http.Client{},
	}
}

func (c *HTTPClient) Heartbeat(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp.Body, c.Logger)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("heartbeat status %d", resp.StatusCode)
	}
	return nil
}

type modelInfo struct {
	Name string `json:"name"`
}

type tagsResponse struct {
	Models []modelInfo `json:"models"`
}

func (c *HTTPClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp.Body, c.Logger)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("list models: non-2xx status: %d", resp.StatusCode)
	}
	var tags tagsResponse
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (c *HTTPClient) CreateModel(ctx context.Context, name, modelfile string) error {
	body := map[string]any{"name": name, "modelfile": modelfile}
	_, err := c.postJSON(ctx, c.probe, "/api/create", body)
	return err
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *HTTPClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	body := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	raw, err := c.postJSON(ctx, c.long, "/api/generate", body)
	if err != nil {
		return "", err
	}
	var gen generateResponse
	if err := json.Unmarshal(raw, &gen); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return gen.Response, nil
}

// postJSON sends a JSON request and returns the raw response body.
func (c *HTTPClient) postJSON(ctx context.Context, client *http.Client, path string, body any) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		c.Logger.Error("backend.http.encode_error", "req_id", reqID, "error", err)
		return nil, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(bs))
	if err != nil {
		c.Logger.Error("backend.http.build_request_error", "req_id", reqID, "error", err)
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.Logger.Info("backend.http.request",
		"req_id", reqID,
		"path", path,
		"content_length", len(bs),
	)

	resp, err := client.Do(req)
	if err != nil {
		c.Logger.Error("backend.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer closeBody(resp.Body, c.Logger)

	raw, _ := io.ReadAll(resp.Body)

	c.Logger.Info("backend.http.response",
		"req_id", reqID,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, nil
}

func closeBody(body io.ReadCloser, logger *slog.Logger) {
	if err := body.Close(); err != nil {
		logger.Warn("backend.http.response_body_close_error", "error", err)
	}
}

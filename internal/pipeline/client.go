// Package pipeline is a thin client for the external workflow service that
// rewrites requirement text into structured forms (EARS, INCOSE). The server
// proxies a small subset of its API so browser clients never hold the
// service credentials.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"reqwire/internal/domain/models"
)

// DefaultTimeout is the default HTTP timeout for pipeline requests.
// Workflow starts are asynchronous so this only covers the API round trip.
const DefaultTimeout = 30 * time.Second

// Run is one workflow execution on the pipeline service.
type Run struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	Status     string         `json:"status"`
	Output     models.JSONMap `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}

// Document is the service's record of an uploaded source document.
type Document struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// StartRunRequest carries the inputs for one workflow run.
type StartRunRequest struct {
	RequirementText string         `json:"requirement_text"`
	DocumentID      string         `json:"document_id,omitempty"`
	Parameters      models.JSONMap `json:"parameters,omitempty"`
}

// Client calls the pipeline service API.
type Client struct {
	baseURL    string
	apiKey     string
	userID     string
	workflowID string
	httpClient *http.Client
}

// New creates a pipeline client.
func New(baseURL, apiKey, userID, workflowID string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userID:     userID,
		workflowID: workflowID,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// UploadDocument sends a source document to the pipeline service and returns
// its record. The document can then be referenced when starting a run.
func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read document content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/documents", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var doc Document
	if err := c.do(req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// StartRun starts one execution of the configured rewrite workflow.
func (c *Client) StartRun(ctx context.Context, runReq *StartRunRequest) (*Run, error) {
	payload, err := json.Marshal(runReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/workflows/%s/runs", c.baseURL, c.workflowID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var run Run
	if err := c.do(req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// RunStatus fetches the current state of a run, including its output once
// the run has finished.
func (c *Client) RunStatus(ctx context.Context, runID string) (*Run, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/runs/"+runID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var run Run
	if err := c.do(req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// do executes a prepared request with auth headers and decodes the JSON
// response into dest.
func (c *Client) do(req *http.Request, dest interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("X-User-Id", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pipeline request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read pipeline response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pipeline error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse pipeline response: %w", err)
	}
	return nil
}

// Package client is the caching API client. It keeps confirmed server state
// in per-entity query caches, tracks selection and recency locally, and can
// follow the server's change stream to keep requirement caches fresh.
//
// The caches are strictly confirmation-driven: a mutation changes cached
// state only after the server acknowledges it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

// DefaultTimeout bounds one API round trip. Streaming requests override it.
const DefaultTimeout = 30 * time.Second

// Client talks to the reqwire server and owns the local stores.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	Projects     *ProjectStore
	Requirements *RequirementStore
	Collections  *CollectionStore
	Docs         *ExternalDocStore

	Selection *SelectionStore
	Recency   *RecencyStore
}

// New creates a client. stateDir is where selection and recency state is
// persisted between runs; pass "" to keep them in memory only.
func New(baseURL, token, stateDir string, logger *slog.Logger) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}

	selection, err := LoadSelection(stateDir)
	if err != nil {
		return nil, fmt.Errorf("load selection state: %w", err)
	}
	recency, err := LoadRecency(stateDir)
	if err != nil {
		return nil, fmt.Errorf("load recency state: %w", err)
	}
	c.Selection = selection
	c.Recency = recency

	c.Projects = newProjectStore(c)
	c.Requirements = newRequirementStore(c)
	c.Collections = newCollectionStore(c)
	c.Docs = newExternalDocStore(c)

	return c, nil
}

// Profile fetches the caller's profile, creating it server-side on first access.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, "/api/users/me/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, req *services.UpdateProfileRequest) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodPatch, "/api/users/me/profile", nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// EnsureOnboarded runs the explicit account-setup step. For a user with no
// projects the server creates the starter project and requirement; for
// everyone else it reports Created=false and changes nothing. This is only
// ever invoked deliberately, never as a side effect of a read.
func (c *Client) EnsureOnboarded(ctx context.Context) (*services.OnboardingResult, error) {
	var result services.OnboardingResult
	if err := c.do(ctx, http.MethodPost, "/api/users/me/onboarding", nil, nil, &result); err != nil {
		return nil, err
	}
	if result.Created {
		// New server rows invalidate whatever project lists were cached
		c.Projects.cache.clear()
		c.Requirements.cache.clear()
	}
	return &result, nil
}

// get issues a GET with optional query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

// do issues one API request. Nil body means no payload; nil dest discards
// the response body after status checking.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, raw)
	}

	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// problem is the server's RFC 7807 error document.
type problem struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// apiError maps an error response back onto the domain error taxonomy so
// callers can use errors.Is the same way server-side code does.
func apiError(status int, raw []byte) error {
	var p problem
	detail := string(raw)
	if err := json.Unmarshal(raw, &p); err == nil && p.Detail != "" {
		detail = p.Detail
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, detail)
	default:
		return fmt.Errorf("server error (status %d): %s", status, detail)
	}
}

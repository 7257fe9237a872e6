package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// Subscription is a live requirement change stream. C closes when the
// server ends the stream or the context is cancelled; there is no automatic
// reconnect and no replay of missed events. Callers that need to continue
// open a new subscription and refetch.
type Subscription struct {
	C      <-chan models.ChangeEvent
	cancel context.CancelFunc
}

// Close terminates the stream. Safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
}

// SubscribeRequirements opens an SSE stream of requirement changes,
// optionally scoped to one project.
func (c *Client) SubscribeRequirements(ctx context.Context, projectID *uuid.UUID) (*Subscription, error) {
	u := c.baseURL + "/api/requirements/events"
	if projectID != nil {
		q := url.Values{}
		q.Set("project_id", projectID.String())
		u += "?" + q.Encode()
	}

	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.token)

	// Separate client without a timeout: the stream stays open until
	// cancelled
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open change stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("change stream rejected (status %d)", resp.StatusCode)
	}

	events := make(chan models.ChangeEvent, 16)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		c.readStream(ctx, resp.Body, events)
	}()

	return &Subscription{C: events, cancel: cancel}, nil
}

// readStream parses text/event-stream frames until the connection drops or
// the context is cancelled. Comment lines (keepalives) are skipped.
func (c *Client) readStream(ctx context.Context, body interface{ Read([]byte) (int, error) }, events chan<- models.ChangeEvent) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Frame boundary
			if data.Len() > 0 {
				c.dispatchEvent(ctx, data.String(), events)
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
			// Keepalive comment
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
		// event: lines are redundant with the payload's eventType field
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn("change stream read failed", "error", err)
	}
}

func (c *Client) dispatchEvent(ctx context.Context, payload string, events chan<- models.ChangeEvent) {
	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		c.logger.Error("malformed change event", "error", err)
		return
	}

	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

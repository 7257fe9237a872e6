package sse

import (
	"fmt"
	"net/http"
	"sync"
)

// EventWriter writes Server-Sent Events frames to an HTTP response.
// All writes flush immediately so the client sees each event as it happens.
// A mutex serializes frames: the keep-alive goroutine and the event loop
// share one ResponseWriter, which is not safe for concurrent writes.
type EventWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewEventWriter prepares the response for an SSE stream and returns a
// writer for it. Returns an error if the underlying writer cannot flush.
func NewEventWriter(w http.ResponseWriter) (*EventWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &EventWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named SSE event with a JSON payload and flushes.
func (e *EventWriter) WriteEvent(event string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write event failed: %w", err)
	}
	e.flusher.Flush()
	return nil
}

// WriteKeepAlive writes an SSE comment (: keepalive) and flushes.
// Returns error if the connection is closed or the write fails.
func (e *EventWriter) WriteKeepAlive() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// SSE spec: lines starting with : are comments (ignored by client)
	if _, err := fmt.Fprintf(e.w, ": keepalive\n\n"); err != nil {
		return fmt.Errorf("write keepalive failed: %w", err)
	}
	e.flusher.Flush()

	// Zero-byte write detects connections the flush did not surface
	if _, err := e.w.Write([]byte{}); err != nil {
		return fmt.Errorf("connection closed: %w", err)
	}

	return nil
}

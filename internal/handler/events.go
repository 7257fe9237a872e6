package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"reqwire/internal/changefeed"
	"reqwire/internal/handler/sse"
	"reqwire/internal/httputil"
	"reqwire/internal/repository/postgres"
)

// EventsHandler streams row change events to clients over SSE
type EventsHandler struct {
	broker    *changefeed.Broker
	tables    *postgres.TableNames
	sseConfig *sse.Config
	logger    *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(broker *changefeed.Broker, tables *postgres.TableNames, sseConfig *sse.Config, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		broker:    broker,
		tables:    tables,
		sseConfig: sseConfig,
		logger:    logger,
	}
}

// StreamRequirements streams requirement changes, optionally filtered to one
// project. The stream stays open until the client disconnects or the broker
// shuts down.
// GET /api/requirements/events?project_id=...
func (h *EventsHandler) StreamRequirements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryUUID(w, r, "project_id")
	if !ok {
		return
	}

	var filter *changefeed.Filter
	if projectID != nil {
		filter = &changefeed.Filter{Column: "project_id", Value: projectID.String()}
	}

	sub := h.broker.Subscribe(h.tables.Requirements, filter)
	defer sub.Unsubscribe()

	writer, err := sse.NewEventWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAliveStopped := keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	h.logger.Info("change stream opened",
		"table", h.tables.Requirements,
		"project_id", projectID,
	)

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("change stream client disconnected")
			return

		case <-keepAliveStopped:
			// Keep-alive detected a dead connection
			return

		case ev, open := <-sub.C:
			if !open {
				// Broker shut down, likely database connection loss
				h.logger.Warn("change stream closed by broker")
				return
			}

			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to encode change event", "error", err)
				continue
			}

			if err := writer.WriteEvent(string(ev.EventType), payload); err != nil {
				h.logger.Debug("change stream write failed", "error", err)
				return
			}
		}
	}
}

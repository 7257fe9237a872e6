package handler

import (
	"log/slog"
	"net/http"

	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
	"reqwire/internal/httputil"
)

// CollectionHandler handles collection HTTP requests
type CollectionHandler struct {
	service services.CollectionService
	logger  *slog.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(service services.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateCollection creates a new collection
// POST /api/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCollectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.CreatorID = httputil.GetUserID(r)

	collection, err := h.service.CreateCollection(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, collection)
}

// ListCollections lists collections
// GET /api/collections?parent_id=...&roots=true
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	parentID, ok := queryUUID(w, r, "parent_id")
	if !ok {
		return
	}

	collections, err := h.service.ListCollections(r.Context(), repositories.CollectionFilter{
		ParentID:  parentID,
		RootsOnly: r.URL.Query().Get("roots") == "true",
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collections)
}

// GetCollection retrieves a collection by ID
// GET /api/collections/{id}
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	collection, err := h.service.GetCollection(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collection)
}

// UpdateCollection applies a partial update to a collection
// PATCH /api/collections/{id}
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req services.UpdateCollectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	collection, err := h.service.UpdateCollection(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collection)
}

// DeleteCollection deletes a collection
// DELETE /api/collections/{id}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCollection(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

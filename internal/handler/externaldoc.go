package handler

import (
	"log/slog"
	"net/http"

	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
	"reqwire/internal/httputil"
)

// ExternalDocHandler handles external document HTTP requests
type ExternalDocHandler struct {
	service services.ExternalDocService
	logger  *slog.Logger
}

// NewExternalDocHandler creates a new external doc handler
func NewExternalDocHandler(service services.ExternalDocService, logger *slog.Logger) *ExternalDocHandler {
	return &ExternalDocHandler{
		service: service,
		logger:  logger,
	}
}

// CreateExternalDoc registers a new external document reference
// POST /api/docs
func (h *ExternalDocHandler) CreateExternalDoc(w http.ResponseWriter, r *http.Request) {
	var req services.CreateExternalDocRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.CreatorID = httputil.GetUserID(r)

	doc, err := h.service.CreateExternalDoc(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListExternalDocs lists external docs, optionally filtered
// GET /api/docs?collection_id=...&doc_type=...
func (h *ExternalDocHandler) ListExternalDocs(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := queryUUID(w, r, "collection_id")
	if !ok {
		return
	}

	filter := repositories.ExternalDocFilter{CollectionID: collectionID}
	if docType := r.URL.Query().Get("doc_type"); docType != "" {
		filter.DocType = &docType
	}

	docs, err := h.service.ListExternalDocs(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetExternalDoc retrieves an external doc by ID
// GET /api/docs/{id}
func (h *ExternalDocHandler) GetExternalDoc(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	doc, err := h.service.GetExternalDoc(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateExternalDoc applies a partial update to an external doc
// PATCH /api/docs/{id}
func (h *ExternalDocHandler) UpdateExternalDoc(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req services.UpdateExternalDocRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.service.UpdateExternalDoc(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteExternalDoc deletes an external doc
// DELETE /api/docs/{id}
func (h *ExternalDocHandler) DeleteExternalDoc(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExternalDoc(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

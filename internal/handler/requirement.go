package handler

import (
	"log/slog"
	"net/http"

	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
	"reqwire/internal/httputil"
)

// RequirementHandler handles requirement HTTP requests
type RequirementHandler struct {
	service services.RequirementService
	logger  *slog.Logger
}

// NewRequirementHandler creates a new requirement handler
func NewRequirementHandler(service services.RequirementService, logger *slog.Logger) *RequirementHandler {
	return &RequirementHandler{
		service: service,
		logger:  logger,
	}
}

// CreateRequirement creates a new requirement
// POST /api/requirements
func (h *RequirementHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRequirementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.CreatorID = httputil.GetUserID(r)

	requirement, err := h.service.CreateRequirement(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, requirement)
}

// ListRequirements lists requirements, optionally filtered by project or parent
// GET /api/requirements?project_id=...&parent_id=...
func (h *RequirementHandler) ListRequirements(w http.ResponseWriter, r *http.Request) {
	projectID, ok := queryUUID(w, r, "project_id")
	if !ok {
		return
	}
	parentID, ok := queryUUID(w, r, "parent_id")
	if !ok {
		return
	}

	requirements, err := h.service.ListRequirements(r.Context(), repositories.RequirementFilter{
		ProjectID: projectID,
		ParentID:  parentID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirements)
}

// GetRequirement retrieves a requirement by ID
// GET /api/requirements/{id}
func (h *RequirementHandler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	requirement, err := h.service.GetRequirement(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirement)
}

// UpdateRequirement applies a partial update to a requirement
// PATCH /api/requirements/{id}
func (h *RequirementHandler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req services.UpdateRequirementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	requirement, err := h.service.UpdateRequirement(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirement)
}

// ApplyAnalysis stores a pipeline rewrite result on a requirement
// POST /api/requirements/{id}/analysis
func (h *RequirementHandler) ApplyAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req services.ApplyAnalysisRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	requirement, err := h.service.ApplyAnalysis(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requirement)
}

// DeleteRequirement deletes a requirement
// DELETE /api/requirements/{id}
func (h *RequirementHandler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRequirement(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

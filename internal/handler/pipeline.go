package handler

import (
	"log/slog"
	"net/http"

	"reqwire/internal/httputil"
	"reqwire/internal/pipeline"
)

// maxUploadSize bounds pipeline document uploads (20MB).
const maxUploadSize = 20 << 20

// PipelineHandler proxies the workflow pipeline service. Clients never talk
// to the pipeline directly: the server holds the API key and forwards a
// fixed set of operations.
type PipelineHandler struct {
	client *pipeline.Client
	logger *slog.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(client *pipeline.Client, logger *slog.Logger) *PipelineHandler {
	return &PipelineHandler{
		client: client,
		logger: logger,
	}
}

// UploadDocument forwards a source document upload to the pipeline service
// POST /api/pipeline/documents
func (h *PipelineHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	doc, err := h.client.UploadDocument(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("pipeline upload failed", "error", err, "filename", header.Filename)
		httputil.RespondError(w, http.StatusBadGateway, "pipeline service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// StartRun starts a rewrite workflow run
// POST /api/pipeline/runs
func (h *PipelineHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	var req pipeline.StartRunRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RequirementText == "" {
		httputil.RespondError(w, http.StatusBadRequest, "requirement_text is required")
		return
	}

	run, err := h.client.StartRun(r.Context(), &req)
	if err != nil {
		h.logger.Error("pipeline run start failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "pipeline service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, run)
}

// RunStatus returns the current state of a run
// GET /api/pipeline/runs/{id}
func (h *PipelineHandler) RunStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Run ID is required")
		return
	}

	run, err := h.client.RunStatus(r.Context(), id)
	if err != nil {
		h.logger.Error("pipeline run status failed", "error", err, "run_id", id)
		httputil.RespondError(w, http.StatusBadGateway, "pipeline service unavailable")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, run)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/wpk-/aapi-versioned/internal/export"
	"github.com/wpk-/aapi-versioned/internal/joblog"
	"github.com/wpk-/aapi-versioned/internal/logger"
)

// Documents builds the export documents served over HTTP.
type Documents interface {
	Jobs(ctx context.Context) (export.Document, []joblog.LogItem, error)
	Job(ctx context.Context, id int64) (export.Document, joblog.LogItem, error)
}

// JobsHandler serves the job history and per-job changes. Documents of
// finished jobs never change and are cached.
type JobsHandler struct {
	docs  Documents
	cache *expirable.LRU[int64, export.Document]
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(docs Documents) *JobsHandler {
	return &JobsHandler{
		docs:  docs,
		cache: expirable.NewLRU[int64, export.Document](JobCacheSize, nil, JobCacheTTL),
	}
}

// HandleGetJobs returns the jobs of the recent history window
// @Summary List recent jobs
// @Description Returns the synchronization jobs of the history window, newest first
// @Tags jobs
// @Produce json
// @Success 200 {object} export.Document
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/jobs [get]
func (h *JobsHandler) HandleGetJobs(w http.ResponseWriter, r *http.Request) {
	doc, _, err := h.docs.Jobs(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error(LogMsgJobsFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// HandleGetJob returns the rows one job created or deleted
// @Summary Job changes
// @Description Returns the rows one job created or deleted. Finished jobs are cached.
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} export.Document
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidJobID)
		return
	}

	if doc, ok := h.cache.Get(id); ok {
		respondJSON(w, http.StatusOK, doc)
		return
	}

	doc, item, err := h.docs.Job(r.Context(), id)
	if err != nil {
		if errors.Is(err, export.ErrJobNotFound) {
			respondError(w, http.StatusNotFound, ErrMsgJobNotFound)
			return
		}
		logger.FromContext(r.Context()).Error(LogMsgJobFailed, "error", err, "job_id", id)
		respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
		return
	}

	if item.Status.Terminal() {
		h.cache.Add(id, doc)
	}
	respondJSON(w, http.StatusOK, doc)
}

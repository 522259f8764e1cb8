package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyway/coursegate/internal/service"
	"github.com/studyway/coursegate/pkg/middleware"
)

// ProgressHandler exposes the per-lecture progress surface.
type ProgressHandler struct {
	progress *service.ProgressService
}

// NewProgressHandler creates a progress handler.
func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type setViewedRequest struct {
	Viewed bool `json:"viewed"`
}

// SetLectureViewed handles PUT /api/v1/courses/{courseID}/lectures/{lectureID}/progress.
func (h *ProgressHandler) SetLectureViewed(w http.ResponseWriter, r *http.Request) {
	var req setViewedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	record, err := h.progress.SetLectureViewed(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
		chi.URLParam(r, "lectureID"),
		req.Viewed,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// MarkAll handles PUT /api/v1/courses/{courseID}/progress.
func (h *ProgressHandler) MarkAll(w http.ResponseWriter, r *http.Request) {
	var req setViewedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	record, err := h.progress.MarkAllViewed(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
		req.Viewed,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Get handles GET /api/v1/courses/{courseID}/progress.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := h.progress.GetProgress(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

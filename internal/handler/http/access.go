package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyway/coursegate/internal/service"
	"github.com/studyway/coursegate/pkg/middleware"
)

// AccessHandler exposes the access request workflow and the free enrollment
// path.
type AccessHandler struct {
	access *service.AccessService
}

// NewAccessHandler creates an access handler.
func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{access: access}
}

// Request handles POST /api/v1/courses/{courseID}/access-requests.
func (h *AccessHandler) Request(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := h.access.Request(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// Status handles GET /api/v1/courses/{courseID}/access-requests/status.
func (h *AccessHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := h.access.Status(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// List handles GET /api/v1/courses/{courseID}/access-requests.
func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.access.ListForCourse(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Approve handles POST /api/v1/access-requests/{requestID}/approve.
func (h *AccessHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := h.access.Approve(ctx, chi.URLParam(r, "requestID"), middleware.RoleFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Decline handles POST /api/v1/access-requests/{requestID}/decline.
func (h *AccessHandler) Decline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := h.access.Decline(ctx, chi.URLParam(r, "requestID"), middleware.RoleFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Delete handles DELETE /api/v1/access-requests/{requestID}.
func (h *AccessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.access.Delete(r.Context(), chi.URLParam(r, "requestID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FreeEnroll handles POST /api/v1/courses/{courseID}/enroll-free.
func (h *AccessHandler) FreeEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.access.FreeEnroll(ctx,
		middleware.AccountIDFromContext(ctx),
		chi.URLParam(r, "courseID"),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}

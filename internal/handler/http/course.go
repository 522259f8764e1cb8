package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyway/coursegate/internal/service"
	"github.com/studyway/coursegate/pkg/middleware"
)

// CourseHandler exposes the catalog surface.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler creates a course handler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type createCourseRequest struct {
	Title        string `json:"title" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Level        string `json:"level" validate:"required"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents" validate:"min=0"`
}

type addLectureRequest struct {
	Title string `json:"title" validate:"required"`
}

// Create handles POST /api/v1/courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	course, err := h.courses.CreateCourse(r.Context(), service.CreateCourseInput{
		InstructorID: middleware.AccountIDFromContext(r.Context()),
		Title:        req.Title,
		Category:     req.Category,
		Level:        req.Level,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// Get handles GET /api/v1/courses/{courseID}.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	course, _, err := h.courses.GetCourse(ctx,
		chi.URLParam(r, "courseID"),
		middleware.AccountIDFromContext(ctx),
		middleware.RoleFromContext(ctx),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// GetLecture handles GET /api/v1/courses/{courseID}/lectures/{lectureID}.
// Content is gated: operators and enrolled students only.
func (h *CourseHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lecture, err := h.courses.GetLecture(ctx,
		chi.URLParam(r, "courseID"),
		chi.URLParam(r, "lectureID"),
		middleware.AccountIDFromContext(ctx),
		middleware.RoleFromContext(ctx),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lecture)
}

// AddLecture handles POST /api/v1/courses/{courseID}/lectures.
func (h *CourseHandler) AddLecture(w http.ResponseWriter, r *http.Request) {
	var req addLectureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	lecture, err := h.courses.AddLecture(r.Context(), chi.URLParam(r, "courseID"), req.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lecture)
}

// Publish handles POST /api/v1/courses/{courseID}/publish.
func (h *CourseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	course, err := h.courses.Publish(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

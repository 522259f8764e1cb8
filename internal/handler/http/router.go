package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Course   *CourseHandler
	Access   *AccessHandler
	Progress *ProgressHandler
}

// NewRouter wires the HTTP surface. Public routes cover registration and
// verification; everything else sits behind the JWT middleware, with the
// operator routes additionally role-gated.
func NewRouter(h Handlers, corsConfig CORSConfig, validate middleware.TokenValidator, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogging(log))
	r.Use(middleware.PrometheusMetrics("coursegate"))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/verify", h.Auth.Verify)
			r.Post("/resend", h.Auth.Reissue)
			r.Post("/login", h.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate))

			r.Route("/courses", func(r chi.Router) {
				r.With(middleware.RequireRole(domain.RoleInstructor, domain.RoleAdmin)).
					Post("/", h.Course.Create)

				r.Route("/{courseID}", func(r chi.Router) {
					r.Get("/", h.Course.Get)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(domain.RoleInstructor, domain.RoleAdmin))
						r.Post("/lectures", h.Course.AddLecture)
						r.Post("/publish", h.Course.Publish)
						r.Get("/access-requests", h.Access.List)
					})

					r.Post("/access-requests", h.Access.Request)
					r.Get("/access-requests/status", h.Access.Status)
					r.Post("/enroll-free", h.Access.FreeEnroll)

					r.Get("/progress", h.Progress.Get)
					r.Put("/progress", h.Progress.MarkAll)
					r.Get("/lectures/{lectureID}", h.Course.GetLecture)
					r.Put("/lectures/{lectureID}/progress", h.Progress.SetLectureViewed)
				})
			})

			r.Route("/access-requests/{requestID}", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleInstructor, domain.RoleAdmin))
				r.Post("/approve", h.Access.Approve)
				r.Post("/decline", h.Access.Decline)
				r.Delete("/", h.Access.Delete)
			})
		})
	})

	return r
}

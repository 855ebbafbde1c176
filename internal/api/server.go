package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/skillsprint/internal/config"
	"github.com/terra-clan/skillsprint/internal/mentor"
	"github.com/terra-clan/skillsprint/internal/services"
	"github.com/terra-clan/skillsprint/internal/store"
)

// Server represents the HTTP API server
type Server struct {
	config   config.ServerConfig
	limits   config.RateLimitConfig
	router   *chi.Mux
	store    *store.Store
	mentor   *mentor.Service
	registry *services.Registry
	hub      *Hub
}

// NewServer creates a new API server. registry may be nil when no external
// backends are configured.
func NewServer(
	cfg config.ServerConfig,
	limits config.RateLimitConfig,
	st *store.Store,
	mentorSvc *mentor.Service,
	registry *services.Registry,
) *Server {
	s := &Server{
		config:   cfg,
		limits:   limits,
		store:    st,
		mentor:   mentorSvc,
		registry: registry,
		hub:      NewHub(),
	}
	s.hub.Attach(st)
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// Close disconnects event feed clients
func (s *Server) Close() {
	s.hub.Close()
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", RoleHeader, UserHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(IdentityMiddleware)

		// The websocket stays outside the request timeout
		r.Get("/events/ws", s.handleEventsWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			if s.limits.Enabled() {
				r.Use(RateLimitMiddleware(s.limits.RPS, s.limits.Burst))
			}

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", s.handleListCompanies)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetCompany)
					r.Get("/enrollments", s.handleCompanyEnrollments)
					r.Get("/summary", s.handleCompanySummary)
					r.Get("/outreach", s.handleCompanyOutreach)
					r.Post("/outreach", s.handleSendOutreach)
				})
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", s.handleListCourses)
				r.Get("/{id}", s.handleGetCourse)
			})

			r.Route("/tracks", func(r chi.Router) {
				r.Get("/", s.handleListTracks)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetTrack)
					r.Get("/stages", s.handleTrackStages)
					r.Get("/enrollments", s.handleTrackEnrollments)
				})
			})

			r.Get("/stages/{id}", s.handleGetStage)

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", s.handleListJobs)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetJob)
					r.Get("/candidates", s.handleJobCandidates)
				})
			})

			r.Route("/learners", func(r chi.Router) {
				r.Get("/", s.handleListLearners)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetLearner)
					r.Get("/summary", s.handleLearnerSummary)
					r.Get("/skills", s.handleLearnerSkills)
					r.Get("/skills-profile", s.handleLearnerSkillsProfile)
					r.Get("/avg-score", s.handleLearnerAvgScore)
					r.Get("/enrollments", s.handleLearnerEnrollments)
					r.Post("/enrollments", s.handleStartTrack)
					r.Get("/completions", s.handleLearnerCompletions)
					r.Post("/completions", s.handleCompleteCourse)
					r.Put("/resume", s.handleUpdateResume)
					r.Get("/outreach", s.handleLearnerOutreach)
					r.Get("/job-matches", s.handleJobMatches)
				})
			})

			r.Route("/enrollments/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetEnrollment)
				r.Get("/risk", s.handleEnrollmentRisk)
				r.Get("/check-ins", s.handleListCheckIns)
				r.Post("/check-ins", s.handleCheckIn)
				r.Post("/complete-stage", s.handleCompleteStage)
			})

			r.Route("/mentor", func(r chi.Router) {
				r.Get("/quota", s.handleMentorQuota)
				r.Post("/{kind}", s.handleMentorSuggest)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedro/titanlift/internal/coach"
	"github.com/pedro/titanlift/internal/timer"
	"github.com/pedro/titanlift/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts *workout.Manager
	elapsed  *timer.Elapsed
	rest     *timer.Rest
	coach    *coach.Client
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(workouts *workout.Manager, elapsed *timer.Elapsed, rest *timer.Rest, coachClient *coach.Client, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		workouts: workouts,
		elapsed:  elapsed,
		rest:     rest,
		coach:    coachClient,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Library
		r.Get("/exercises", s.handleListExercises)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/history", s.handleListSessions)
		r.Get("/history/{id}", s.handleGetSession)
		r.Get("/records", s.handleListRecords)
		r.Get("/progress/{exerciseID}", s.handleProgress)

		// Coach (fail-soft, read-only)
		r.Get("/quote", s.handleQuote)
		r.Get("/tips", s.handleTips)

		// Timers
		r.Get("/timer", s.handleTimerState)
		r.Get("/rest/{exerciseID}", s.handleRestState)

		// Mutations (API key, when configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Post("/exercises", s.handleCreateExercise)
			r.Put("/exercises/{id}/name", s.handleRenameExercise)

			r.Post("/templates", s.handleCreateTemplate)
			r.Put("/templates/{id}/name", s.handleRenameTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)

			r.Delete("/history/{id}", s.handleDeleteSession)

			r.Route("/active/{templateID}", func(r chi.Router) {
				r.Get("/", s.handleLoadDraft)
				r.Delete("/", s.handleAbandonDraft)
				r.Post("/finish", s.handleFinish)
				r.Post("/exercises", s.handleDraftAddExercise)
				r.Delete("/exercises/{idx}", s.handleDraftRemoveExercise)
				r.Put("/exercises/{idx}/name", s.handleDraftRenameExercise)
				r.Put("/exercises/{idx}/notes", s.handleDraftNotes)
				r.Post("/exercises/{idx}/sets", s.handleDraftAddSet)
				r.Delete("/exercises/{idx}/sets/{setIdx}", s.handleDraftRemoveSet)
				r.Put("/exercises/{idx}/sets/{setIdx}", s.handleDraftUpdateSet)
				r.Put("/exercises/{idx}/sets/{setIdx}/completed", s.handleDraftCompleteSet)
			})

			r.Post("/timer/start", s.handleTimerStart)
			r.Post("/timer/pause", s.handleTimerPause)
			r.Post("/timer/reset", s.handleTimerReset)

			r.Put("/rest/{exerciseID}/prefs", s.handleRestConfigure)
			r.Post("/rest/{exerciseID}/start", s.handleRestStart)
			r.Post("/rest/{exerciseID}/pause", s.handleRestPause)
			r.Post("/rest/{exerciseID}/resume", s.handleRestResume)
			r.Post("/rest/{exerciseID}/reset", s.handleRestReset)
		})
	})
}

// SetFrontend mounts the SPA filesystem. Unmatched routes serve index.html
// for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

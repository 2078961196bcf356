package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const requestTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", userHeader, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(requestTimeout))
		r.Use(userMiddleware)

		r.Get("/schedules", s.handleListSchedules)
		r.Post("/schedules", s.handleCreateSchedule)
		r.Put("/schedules/{id}", s.handleUpdateSchedule)
		r.Delete("/schedules/{id}", s.handleDeleteSchedule)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Put("/decks/{id}/schedule", s.handleChangeDeckSchedule)
		r.Post("/decks/{id}/review", s.handleSubmitReview)
		r.Delete("/decks/{id}/histories", s.handleRestartDeck)
		r.Post("/decks/{id}/sessions", s.handleStartSession)

		r.Get("/sessions/{sid}", s.handleGetSession)
		r.Put("/sessions/{sid}/answers", s.handleSessionAnswers)
		r.Post("/sessions/{sid}/check", s.handleSessionCheck)
		r.Post("/sessions/{sid}/advance", s.handleSessionAdvance)
		r.Post("/sessions/{sid}/finish", s.handleSessionFinish)

		r.Get("/cards/hard", s.handleHardCards)
		r.Post("/cards/hard", s.handleMarkHard)
	})
	return r
}

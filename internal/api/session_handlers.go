package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordladder/internal/services"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.SessionService.Start(r.Context(), userFromContext(r.Context()), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

type sessionOp func(r *http.Request, userID int64, sid string) (*services.SessionView, error)

// sessionHandler adapts a session operation keyed by {sid}.
func sessionHandler(op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := op(r, userFromContext(r.Context()), chi.URLParam(r, "sid"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, view)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionHandler(func(r *http.Request, userID int64, sid string) (*services.SessionView, error) {
		return s.SessionService.View(r.Context(), userID, sid)
	})(w, r)
}

func (s *Server) handleSessionAnswers(w http.ResponseWriter, r *http.Request) {
	sessionHandler(func(r *http.Request, userID int64, sid string) (*services.SessionView, error) {
		var body struct {
			Answers map[int64]string `json:"answers"`
		}
		if err := decodeJSON(r, &body); err != nil {
			return nil, err
		}
		return s.SessionService.Answer(r.Context(), userID, sid, body.Answers)
	})(w, r)
}

func (s *Server) handleSessionCheck(w http.ResponseWriter, r *http.Request) {
	sessionHandler(func(r *http.Request, userID int64, sid string) (*services.SessionView, error) {
		return s.SessionService.Check(r.Context(), userID, sid)
	})(w, r)
}

func (s *Server) handleSessionAdvance(w http.ResponseWriter, r *http.Request) {
	sessionHandler(func(r *http.Request, userID int64, sid string) (*services.SessionView, error) {
		return s.SessionService.Advance(r.Context(), userID, sid)
	})(w, r)
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	sessionHandler(func(r *http.Request, userID int64, sid string) (*services.SessionView, error) {
		return s.SessionService.FinishEarly(r.Context(), userID, sid)
	})(w, r)
}
